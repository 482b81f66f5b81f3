package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/advisor-assistant/internal/infra/config"
)

func TestClientLimiterRefills(t *testing.T) {
	clock := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2}, func() time.Time { return clock })

	_, ok := limiter.take("a")
	require.True(t, ok)
	_, ok = limiter.take("a")
	require.True(t, ok)

	wait, ok := limiter.take("a")
	require.False(t, ok)
	require.Equal(t, time.Second, wait)

	_, ok = limiter.take("b")
	require.True(t, ok, "buckets are per client")

	clock = clock.Add(time.Second)
	_, ok = limiter.take("a")
	require.True(t, ok)
}

func TestClientLimiterEvictsIdleClients(t *testing.T) {
	clock := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 1}, func() time.Time { return clock })

	limiter.take("a")
	clock = clock.Add(limiterIdleTTL + time.Second)
	limiter.take("b")

	_, exists := limiter.buckets["a"]
	require.False(t, exists)
}

func TestWithRetryReplaysTransientFailures(t *testing.T) {
	var calls int
	var bodies []string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	cfg := config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond}
	handler := withRetry(inner, cfg, newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/faq/ask", bytes.NewBufferString(`{"question":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, 2, calls)
	require.Equal(t, []string{`{"question":"hi"}`, `{"question":"hi"}`}, bodies)
}

func TestWithRetrySkipsUploadsAndExcludedPaths(t *testing.T) {
	var calls int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	cfg := config.RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		Exclude:     []string{"/api/v1/faq/reload"},
	}
	handler := withRetry(inner, cfg, newTestLogger())

	upload := httptest.NewRequest(http.MethodPost, "/api/v1/faq/import", bytes.NewBufferString("--x--"))
	upload.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	handler.ServeHTTP(httptest.NewRecorder(), upload)
	require.Equal(t, 1, calls)

	excluded := httptest.NewRequest(http.MethodPost, "/api/v1/faq/reload", nil)
	handler.ServeHTTP(httptest.NewRecorder(), excluded)
	require.Equal(t, 2, calls)

	get := httptest.NewRequest(http.MethodGet, "/api/v1/faq/trending", nil)
	handler.ServeHTTP(httptest.NewRecorder(), get)
	require.Equal(t, 3, calls)
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("https://x.example", nil))
	require.Equal(t, "https://X.example", resolveOrigin("https://X.example", []string{"https://a.example", "https://x.example"}))
	require.Equal(t, "https://a.example", resolveOrigin("https://evil.example", []string{"https://a.example"}))
}
