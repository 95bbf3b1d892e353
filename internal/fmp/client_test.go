package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratings/internal/contracts"
	"github.com/wonny/ratings/pkg/config"
	"github.com/wonny/ratings/pkg/logger"
	"github.com/wonny/ratings/pkg/ratelimit"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		FMP: config.FMPConfig{
			APIKey:         "test-key",
			BaseURL:        srv.URL,
			CallsPerMinute: 600,
		},
	}
	log := logger.NewWithWriter(discard{})
	return New(cfg, log, ratelimit.NewPerMinute(600)), srv
}

func TestGetAppendsAPIKey(t *testing.T) {
	var gotKey string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("apikey")
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := client.ListStocks(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
}

func TestListStocks(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/list", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"symbol":"AAPL","name":"Apple Inc.","exchangeShortName":"NASDAQ","type":"stock"},
			{"symbol":"JPM","name":"JPMorgan Chase","exchangeShortName":"NYSE","type":"stock"},
			{"symbol":"VTI","name":"Vanguard Total Market","exchangeShortName":"AMEX","type":"etf"},
			{"symbol":"SHOP","name":"Shopify","exchangeShortName":"TSX","type":"stock"}
		]`))
	}))

	instruments, err := client.ListStocks(context.Background(), []string{"NASDAQ", "NYSE"})
	require.NoError(t, err)
	require.Len(t, instruments, 2)
	assert.Equal(t, "AAPL", instruments[0].Ticker)
	assert.Equal(t, "NASDAQ", instruments[0].Exchange)
	assert.Equal(t, "JPM", instruments[1].Ticker)
}

func TestListStocksNoExchangeFilter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"symbol":"AAPL","name":"Apple Inc.","exchangeShortName":"NASDAQ","type":"stock"},
			{"symbol":"SHOP","name":"Shopify","exchangeShortName":"TSX","type":"stock"},
			{"symbol":"VTI","name":"Vanguard","exchangeShortName":"AMEX","type":"etf"}
		]`))
	}))

	instruments, err := client.ListStocks(context.Background(), nil)
	require.NoError(t, err)
	// No filter keeps every stock-typed listing; non-stock types still drop.
	assert.Len(t, instruments, 2)
}

func TestGetPriceHistory(t *testing.T) {
	t.Run("reverses to ascending order", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/historical-price-full/AAPL", r.URL.Path)
			assert.Equal(t, "300", r.URL.Query().Get("timeseries"))
			_, _ = w.Write([]byte(`{"symbol":"AAPL","historical":[
				{"date":"2026-08-25","open":230,"high":233,"low":229,"close":232,"volume":41000000},
				{"date":"2026-08-24","open":228,"high":231,"low":227,"close":230,"volume":38000000},
				{"date":"2026-08-21","open":225,"high":229,"low":224,"close":228,"volume":45000000}
			]}`))
		}))

		bars, err := client.GetPriceHistory(context.Background(), "AAPL", 300)
		require.NoError(t, err)
		require.Len(t, bars, 3)
		assert.Equal(t, "2026-08-21", bars[0].Date.Format("2006-01-02"))
		assert.Equal(t, "2026-08-25", bars[2].Date.Format("2006-01-02"))
		assert.Equal(t, 232.0, bars[2].Close)
		assert.Equal(t, "AAPL", bars[0].Ticker)
	})

	t.Run("drops unparseable dates", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"symbol":"AAPL","historical":[
				{"date":"not-a-date","open":1,"high":1,"low":1,"close":1,"volume":1},
				{"date":"2026-08-21","open":225,"high":229,"low":224,"close":228,"volume":45000000}
			]}`))
		}))

		bars, err := client.GetPriceHistory(context.Background(), "AAPL", 10)
		require.NoError(t, err)
		assert.Len(t, bars, 1)
	})
}

func TestGetIncomeStatements(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/income-statement/MSFT", r.URL.Path)
		assert.Equal(t, "quarter", r.URL.Query().Get("period"))
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			{"date":"2026-06-30","revenue":64700000000,"netIncome":22000000000,"eps":2.95},
			{"date":"2026-03-31","revenue":61900000000,"netIncome":21900000000,"eps":2.94}
		]`))
	}))

	stmts, err := client.GetIncomeStatements(context.Background(), "MSFT", contracts.PeriodQuarterly, 8)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, contracts.PeriodQuarterly, stmts[0].Period)
	require.NotNil(t, stmts[0].EPS)
	assert.Equal(t, 2.95, *stmts[0].EPS)
	assert.Nil(t, stmts[0].StockholdersEquity)
}

func TestGetIncomeStatementsMissingFieldsStayNil(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "annual", r.URL.Query().Get("period"))
		_, _ = w.Write([]byte(`[{"date":"2025-12-31","revenue":1000000}]`))
	}))

	stmts, err := client.GetIncomeStatements(context.Background(), "TINY", contracts.PeriodAnnual, 5)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.NotNil(t, stmts[0].Revenue)
	assert.Nil(t, stmts[0].NetIncome)
	assert.Nil(t, stmts[0].EPS)
}

func TestGetBalanceSheets(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance-sheet-statement/MSFT", r.URL.Path)
		assert.Equal(t, "annual", r.URL.Query().Get("period"))
		_, _ = w.Write([]byte(`[
			{"date":"2025-06-30","totalStockholdersEquity":268000000000,"totalEquity":270000000000}
		]`))
	}))

	stmts, err := client.GetBalanceSheets(context.Background(), "MSFT", 5)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.NotNil(t, stmts[0].StockholdersEquity)
	assert.Equal(t, 268000000000.0, *stmts[0].StockholdersEquity)
	assert.Equal(t, contracts.PeriodAnnual, stmts[0].Period)
}

func TestGetProfile(t *testing.T) {
	t.Run("returns profile", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/profile/AAPL", r.URL.Path)
			_, _ = w.Write([]byte(`[{"symbol":"AAPL","sector":"Technology","industry":"Consumer Electronics","mktCap":3500000000000}]`))
		}))

		profile, err := client.GetProfile(context.Background(), "AAPL")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "Technology", profile.Sector)
		assert.Equal(t, "Consumer Electronics", profile.Industry)
		assert.Equal(t, 3.5e12, profile.MarketCap)
	})

	t.Run("empty response means no profile", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))

		profile, err := client.GetProfile(context.Background(), "UNKNOWN")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})
}

func TestUpstreamErrorPropagates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.GetProfile(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile AAPL")
}
