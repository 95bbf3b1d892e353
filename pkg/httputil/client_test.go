package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ratings/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter(noopWriter{})
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestGetJSON(t *testing.T) {
	t.Run("decodes successful response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"symbol":"AAPL","price":231.5}`))
		}))
		defer srv.Close()

		var got struct {
			Symbol string  `json:"symbol"`
			Price  float64 `json:"price"`
		}

		client := New(testLogger())
		err := client.GetJSON(context.Background(), srv.URL, &got)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", got.Symbol)
		assert.Equal(t, 231.5, got.Price)
	})

	t.Run("non-200 returns error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		var got map[string]interface{}
		client := New(testLogger()).DisableRetry()
		err := client.GetJSON(context.Background(), srv.URL, &got)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("malformed body returns decode error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"symbol":`))
		}))
		defer srv.Close()

		var got map[string]interface{}
		client := New(testLogger())
		err := client.GetJSON(context.Background(), srv.URL, &got)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}

func TestRetry(t *testing.T) {
	t.Run("retries on 500 then succeeds", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		var got map[string]bool
		client := New(testLogger()).WithRetry(3, time.Millisecond)
		err := client.GetJSON(context.Background(), srv.URL, &got)
		require.NoError(t, err)
		assert.True(t, got["ok"])
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := New(testLogger()).WithRetry(2, time.Millisecond)
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls)) // initial + 2 retries
	})

	t.Run("disabled retry calls once", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := New(testLogger()).DisableRetry()
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := New(testLogger()).WithRetry(3, time.Hour)
		_, err := client.Get(ctx, srv.URL)
		require.Error(t, err)
	})
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(http.StatusInternalServerError))
	assert.True(t, IsRetryableStatus(http.StatusBadGateway))
	assert.True(t, IsRetryableStatus(http.StatusTooManyRequests))
	assert.False(t, IsRetryableStatus(http.StatusOK))
	assert.False(t, IsRetryableStatus(http.StatusNotFound))
	assert.False(t, IsRetryableStatus(http.StatusBadRequest))
}
