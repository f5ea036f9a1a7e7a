package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tickbox/tickbox/internal/cache"
)

type stubLimiter struct {
	result *cache.RateLimitResult
	err    error
	lastIP string
}

func (s *stubLimiter) CheckLoginRateLimit(_ context.Context, ip string, _, _ int) (*cache.RateLimitResult, error) {
	s.lastIP = ip
	return s.result, s.err
}

func newRateLimitHandler(limiter LoginLimiter, enabled bool) http.Handler {
	return RateLimitLogin(RateLimitConfig{
		Logger:  discardLogger(),
		Limiter: limiter,
		Enabled: enabled,
		RPS:     5,
		Burst:   10,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimitLogin_Allowed(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 9}}
	handler := newRateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRateLimitLogin_Blocked(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{result: &cache.RateLimitResult{
		Allowed:    false,
		RetryAfter: 3 * time.Second,
	}}
	handler := newRateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "3" {
		t.Errorf("unexpected Retry-After: %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimitLogin_Disabled(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{result: &cache.RateLimitResult{Allowed: false}}
	handler := newRateLimitHandler(limiter, false)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("disabled limiter should pass through, got %d", rec.Code)
	}
}

func TestRateLimitLogin_FailOpen(t *testing.T) {
	t.Parallel()

	limiter := &stubLimiter{err: errors.New("redis down")}
	handler := newRateLimitHandler(limiter, true)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("limiter errors should fail open, got %d", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:4321", "10.0.0.1"},
		{"x-forwarded-for single", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.1:4321", "203.0.113.7"},
		{"x-forwarded-for chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "10.0.0.1:4321", "203.0.113.7"},
		{"x-real-ip", map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.1:4321", "198.51.100.9"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
