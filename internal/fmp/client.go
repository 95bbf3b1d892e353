package fmp

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/pkg/config"
	"github.com/wonny/ratings/pkg/httputil"
	"github.com/wonny/ratings/pkg/logger"
	"github.com/wonny/ratings/pkg/ratelimit"
)

// Client talks to the Financial Modeling Prep JSON API. Every call goes
// through the shared per-minute limiter first, then a per-second smoother
// so bursts inside the minute window stay polite. Any upstream failure is
// returned as an error and must be treated by callers as "no data".
type Client struct {
	httpClient *httputil.Client
	limiter    *ratelimit.Limiter
	smoother   *rate.Limiter
	logger     *logger.Logger

	apiKey  string
	baseURL string
}

// New creates a new FMP client.
func New(cfg *config.Config, log *logger.Logger, limiter *ratelimit.Limiter) *Client {
	// Spread the per-minute budget evenly across seconds.
	perSecond := cfg.FMP.CallsPerMinute / 60
	if perSecond < 1 {
		perSecond = 1
	}

	return &Client{
		httpClient: httputil.New(log),
		limiter:    limiter,
		smoother:   rate.NewLimiter(rate.Limit(perSecond), perSecond),
		logger:     log.WithField("module", "fmp"),
		apiKey:     cfg.FMP.APIKey,
		baseURL:    cfg.FMP.BaseURL,
	}
}

// get waits for rate-limit clearance and decodes one endpoint response.
func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if err := c.smoother.Wait(ctx); err != nil {
		return fmt.Errorf("rate smoother wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())
	return c.httpClient.GetJSON(ctx, fullURL, dest)
}

// listingEntry is one row of the stock list endpoint.
type listingEntry struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	ExchangeShortName string `json:"exchangeShortName"`
	Type              string `json:"type"`
}

// ListStocks returns the tradable instruments on the given exchanges.
func (c *Client) ListStocks(ctx context.Context, exchanges []string) ([]contracts.Instrument, error) {
	var entries []listingEntry
	if err := c.get(ctx, "stock/list", nil, &entries); err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	wanted := make(map[string]bool, len(exchanges))
	for _, ex := range exchanges {
		wanted[ex] = true
	}

	var instruments []contracts.Instrument
	for _, e := range entries {
		if e.Type != "stock" {
			continue
		}
		if len(wanted) > 0 && !wanted[e.ExchangeShortName] {
			continue
		}
		instruments = append(instruments, contracts.Instrument{
			Ticker:   e.Symbol,
			Exchange: e.ExchangeShortName,
			Name:     e.Name,
		})
	}

	return instruments, nil
}

// historicalResponse is the historical price endpoint envelope.
type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"historical"`
}

// GetPriceHistory returns up to days daily bars for a ticker, ordered by
// date ascending. Bars with unparseable dates are dropped.
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, days int) ([]contracts.PriceBar, error) {
	params := url.Values{}
	params.Set("timeseries", fmt.Sprintf("%d", days))

	var resp historicalResponse
	if err := c.get(ctx, "historical-price-full/"+ticker, params, &resp); err != nil {
		return nil, fmt.Errorf("price history %s: %w", ticker, err)
	}

	bars := make([]contracts.PriceBar, 0, len(resp.Historical))
	for _, h := range resp.Historical {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		bars = append(bars, contracts.PriceBar{
			Ticker: ticker,
			Date:   d,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}

	// Endpoint returns newest first; derivation wants oldest first.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return bars, nil
}

// incomeEntry is one income statement row. Pointer fields distinguish a
// reported zero from a missing field; a missing field stays nil.
type incomeEntry struct {
	Date      string   `json:"date"`
	Revenue   *float64 `json:"revenue"`
	NetIncome *float64 `json:"netIncome"`
	EPS       *float64 `json:"eps"`
}

// GetIncomeStatements returns up to limit statements, most recent first.
func (c *Client) GetIncomeStatements(ctx context.Context, ticker string, period contracts.PeriodKind, limit int) ([]contracts.FundamentalStatement, error) {
	params := url.Values{}
	if period == contracts.PeriodQuarterly {
		params.Set("period", "quarter")
	} else {
		params.Set("period", "annual")
	}
	params.Set("limit", fmt.Sprintf("%d", limit))

	var entries []incomeEntry
	if err := c.get(ctx, "income-statement/"+ticker, params, &entries); err != nil {
		return nil, fmt.Errorf("income statements %s: %w", ticker, err)
	}

	stmts := make([]contracts.FundamentalStatement, 0, len(entries))
	for _, e := range entries {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		stmts = append(stmts, contracts.FundamentalStatement{
			Ticker:    ticker,
			Date:      d,
			Period:    period,
			Revenue:   e.Revenue,
			NetIncome: e.NetIncome,
			EPS:       e.EPS,
		})
	}

	return stmts, nil
}

// balanceEntry is one balance sheet row.
type balanceEntry struct {
	Date                    string   `json:"date"`
	TotalStockholdersEquity *float64 `json:"totalStockholdersEquity"`
	TotalEquity             *float64 `json:"totalEquity"`
}

// GetBalanceSheets returns up to limit annual balance sheets, most
// recent first, carrying only the equity fields the ROE metric consumes.
func (c *Client) GetBalanceSheets(ctx context.Context, ticker string, limit int) ([]contracts.FundamentalStatement, error) {
	params := url.Values{}
	params.Set("period", "annual")
	params.Set("limit", fmt.Sprintf("%d", limit))

	var entries []balanceEntry
	if err := c.get(ctx, "balance-sheet-statement/"+ticker, params, &entries); err != nil {
		return nil, fmt.Errorf("balance sheets %s: %w", ticker, err)
	}

	stmts := make([]contracts.FundamentalStatement, 0, len(entries))
	for _, e := range entries {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			continue
		}
		stmts = append(stmts, contracts.FundamentalStatement{
			Ticker:             ticker,
			Date:               d,
			Period:             contracts.PeriodAnnual,
			StockholdersEquity: e.TotalStockholdersEquity,
			TotalEquity:        e.TotalEquity,
		})
	}

	return stmts, nil
}

// profileEntry is one company profile row.
type profileEntry struct {
	Symbol    string  `json:"symbol"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"mktCap"`
}

// GetProfile returns the company profile, or nil when the provider has none.
func (c *Client) GetProfile(ctx context.Context, ticker string) (*contracts.Profile, error) {
	var entries []profileEntry
	if err := c.get(ctx, "profile/"+ticker, nil, &entries); err != nil {
		return nil, fmt.Errorf("profile %s: %w", ticker, err)
	}

	if len(entries) == 0 {
		return nil, nil
	}

	e := entries[0]
	return &contracts.Profile{
		Ticker:    ticker,
		Sector:    e.Sector,
		Industry:  e.Industry,
		MarketCap: e.MarketCap,
	}, nil
}
