package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
	"github.com/wonny/ratings/pkg/redis"
)

// RatingHandler serves the latest rating snapshots.
type RatingHandler struct {
	store  *store.Store
	cache  *redis.Cache
	logger *logger.Logger
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(st *store.Store, cache *redis.Cache, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		store:  st,
		cache:  cache,
		logger: log,
	}
}

// RatingResponse is the published shape of one rating row.
type RatingResponse struct {
	Ticker          string   `json:"ticker"`
	RSRating        *float64 `json:"rs_rating"`
	EPSRating       *float64 `json:"eps_rating"`
	SMRRating       *string  `json:"smr_rating"`
	ADRating        *string  `json:"ad_rating"`
	CompRating      *float64 `json:"comp_rating"`
	IndustryGroupRS *float64 `json:"industry_group_rs"`
	PriceVs52WHigh  *float64 `json:"price_vs_52w_high"`
	UpdatedAt       string   `json:"updated_at"`
}

func toRatingResponse(r *contracts.RatingRecord) RatingResponse {
	return RatingResponse{
		Ticker:          r.Ticker,
		RSRating:        r.RSRating,
		EPSRating:       r.EPSRating,
		SMRRating:       r.SMRRating,
		ADRating:        r.ADRating,
		CompRating:      r.CompRating,
		IndustryGroupRS: r.IndustryGroupRS,
		PriceVs52WHigh:  r.PriceVs52WHigh,
		UpdatedAt:       r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Get returns one instrument's rating.
// GET /api/ratings/{ticker}
func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := strings.ToUpper(mux.Vars(r)["ticker"])

	var cached RatingResponse
	if hit, _ := h.cache.Get(ctx, redis.RatingKey(ticker), &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	rating, err := h.store.Ratings.Get(ctx, ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Failed to get rating")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve rating")
		return
	}
	if rating == nil {
		respondError(w, http.StatusNotFound, "No rating for "+ticker)
		return
	}

	resp := toRatingResponse(rating)
	if err := h.cache.Set(ctx, redis.RatingKey(ticker), resp, redis.TTLMedium); err != nil {
		h.logger.WithError(err).Warn("Rating cache write failed")
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetTop returns the highest composite ratings.
// GET /api/ratings/top?limit=50
func (h *RatingHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	ratings, err := h.store.Ratings.TopByComposite(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get top ratings")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve ratings")
		return
	}

	resp := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, toRatingResponse(&ratings[i]))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(resp),
		"ratings": resp,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
