package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 2,
			Window:            time.Minute,
			Burst:             2,
		}),
	)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	require.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1000"))

	// A different client IP has its own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.2:1000"))
}

func TestRateLimitHonoursForwardedFor(t *testing.T) {
	t.Parallel()

	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}),
	)

	do := func(fwd string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:9999"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("203.0.113.7"))
	require.Equal(t, http.StatusTooManyRequests, do("203.0.113.7"))
	require.Equal(t, http.StatusOK, do("203.0.113.8"))
}
