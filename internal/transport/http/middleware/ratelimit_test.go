package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gymhub/internal/domain/auth"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(noContent))
	userCtx := WithUser(context.Background(), auth.UserContext{UserID: "user-1"})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/salaries/s1/pay", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/salaries/s1/pay", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code, "same user from another ip shares the bucket")
	assert.NotEmpty(t, secondRec.Header().Get("Retry-After"))
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(noContent))

	first := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	assert.Equal(t, http.StatusNoContent, firstRec.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	assert.Equal(t, http.StatusTooManyRequests, secondRec.Code)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	other.RemoteAddr = "203.0.113.99:5555"
	otherRec := httptest.NewRecorder()
	limited.ServeHTTP(otherRec, other)
	assert.Equal(t, http.StatusNoContent, otherRec.Code)
}

func TestRateLimitRefills(t *testing.T) {
	rl := newRateLimiter(2, time.Minute, clientIPKey)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.20:1111"
		rec := httptest.NewRecorder()
		if rl.enforce(rec, req) {
			return http.StatusNoContent
		}
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send())
	assert.Equal(t, http.StatusNoContent, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusNoContent, send(), "one token refills every 30s")
}

func TestRateLimitSweepsIdleVisitors(t *testing.T) {
	rl := newRateLimiter(5, time.Second, clientIPKey)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rl.enforce(httptest.NewRecorder(), req)
	assert.Len(t, rl.visitors, 1)

	now = now.Add(time.Minute)
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "192.0.2.99:1"
	rl.enforce(httptest.NewRecorder(), other)
	assert.Len(t, rl.visitors, 1)
}

func TestRateLimitSweepsOncePerTTL(t *testing.T) {
	rl := newRateLimiter(5, time.Second, clientIPKey)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.enforce(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	rl.visitors["stale"] = &visitor{lastSeen: now.Add(-time.Hour)}

	now = now.Add(time.Second)
	rl.enforce(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rl.visitors, "stale", "no sweep before the ttl has passed")

	now = now.Add(rl.ttl)
	rl.enforce(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rl.visitors, "stale")
}

func TestLoginRateLimitIgnoresSpoofedForwardingHeaders(t *testing.T) {
	limited := LoginRateLimit(4, time.Minute)(http.HandlerFunc(noContent))
	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "192.0.2.7:1"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.2"), "rotating the header must not reset the bucket")
}

func TestTrustProxyUsesForwardedAddress(t *testing.T) {
	var seen string
	handler := TrustProxy(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIP(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.7", seen)

	handler = TrustProxy(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIP(r)
	}))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.2", seen)
}

func TestLoginRateLimitOnlyGuardsLogin(t *testing.T) {
	limited := LoginRateLimit(4, time.Minute)(http.HandlerFunc(noContent))

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "192.0.2.1:1"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "/api/v1/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/api/v1/auth/login"))
	assert.Equal(t, http.StatusNoContent, send(http.MethodGet, "/api/v1/plans"))
}
