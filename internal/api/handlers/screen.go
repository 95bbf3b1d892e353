package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/ratings/internal/screener"
	"github.com/wonny/ratings/internal/store"
	"github.com/wonny/ratings/pkg/logger"
	"github.com/wonny/ratings/pkg/redis"
)

// ScreenHandler serves the latest screen run's results.
type ScreenHandler struct {
	store  *store.Store
	cache  *redis.Cache
	logger *logger.Logger
}

// NewScreenHandler creates a new screen handler.
func NewScreenHandler(st *store.Store, cache *redis.Cache, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		store:  st,
		cache:  cache,
		logger: log,
	}
}

// ScreenResponse is one screen's result list.
type ScreenResponse struct {
	Screen  string   `json:"screen"`
	Count   int      `json:"count"`
	Tickers []string `json:"tickers"`
}

// knownScreens guards the {name} path variable.
var knownScreens = map[string]bool{
	screener.ScreenMomentum97:     true,
	screener.ScreenExplosiveEPS:   true,
	screener.ScreenUpOnVolume:     true,
	screener.ScreenTop2PercentRS:  true,
	screener.ScreenFourPctBullish: true,
	screener.ScreenHealthyChart:   true,
}

// List returns every screen's results.
// GET /api/screens
func (h *ScreenHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := h.store.Screens.GetAllResults(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get screen results")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve screen results")
		return
	}

	resp := make([]ScreenResponse, 0, len(results))
	for _, name := range []string{
		screener.ScreenMomentum97,
		screener.ScreenExplosiveEPS,
		screener.ScreenUpOnVolume,
		screener.ScreenTop2PercentRS,
		screener.ScreenFourPctBullish,
		screener.ScreenHealthyChart,
	} {
		tickers := results[name]
		if tickers == nil {
			tickers = []string{}
		}
		resp = append(resp, ScreenResponse{Screen: name, Count: len(tickers), Tickers: tickers})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"screens": resp,
	})
}

// Get returns one screen's results.
// GET /api/screens/{name}
func (h *ScreenHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := mux.Vars(r)["name"]

	if !knownScreens[name] {
		respondError(w, http.StatusNotFound, "Unknown screen: "+name)
		return
	}

	var cached ScreenResponse
	if hit, _ := h.cache.Get(ctx, redis.ScreenerKey(name), &cached); hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	tickers, err := h.store.Screens.GetResults(ctx, name)
	if err != nil {
		h.logger.WithError(err).WithField("screen", name).Error("Failed to get screen results")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve screen results")
		return
	}
	if tickers == nil {
		tickers = []string{}
	}

	resp := ScreenResponse{Screen: name, Count: len(tickers), Tickers: tickers}
	if err := h.cache.Set(ctx, redis.ScreenerKey(name), resp, redis.TTLShort); err != nil {
		h.logger.WithError(err).Warn("Screen cache write failed")
	}

	respondJSON(w, http.StatusOK, resp)
}
