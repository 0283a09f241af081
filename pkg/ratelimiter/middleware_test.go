package ratelimiter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/pkg/clientip"
	"github.com/dmitrymomot/fieldhub/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) AllowN(context.Context, string, int) (ratelimiter.Result, error) {
	return ratelimiter.Result{}, errors.New("redis down")
}

type scopes struct{ seen []string }

func (s *scopes) ObserveRateLimited(scope string) { s.seen = append(s.seen, scope) }

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func call(h http.Handler, remote string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	r.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	obs := &scopes{}
	mw := ratelimiter.Middleware(newBucket(t, clk), ratelimiter.ByClientIP(clientip.NewResolver()),
		ratelimiter.WithScope("csrf_issuance"),
		ratelimiter.WithObserver(obs),
		ratelimiter.WithMiddlewareClock(clk),
	)
	h := mw(ok)

	for range 3 {
		rec := call(h, "192.0.2.1:1000")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := call(h, "192.0.2.1:2000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ratelimiter.MessageTooManyRequests, body.Error)
	assert.Equal(t, []string{"csrf_issuance"}, obs.seen)

	assert.Equal(t, http.StatusOK, call(h, "192.0.2.2:1000").Code, "other clients are unaffected")
}

func TestMiddleware_FailsOpen(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(failingLimiter{}, ratelimiter.ByClientIP(clientip.NewResolver()))(ok)
	rec := call(h, "192.0.2.1:1000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestMiddleware_EmptyKeySkips(t *testing.T) {
	t.Parallel()

	h := ratelimiter.Middleware(failingLimiter{}, func(*http.Request) string { return "" })(ok)
	assert.Equal(t, http.StatusOK, call(h, "pipe").Code)
}

func TestByClientIP_PrefersContext(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1"
	assert.Equal(t, "10.0.0.1", ratelimiter.ByClientIP(clientip.NewResolver())(r))

	r = r.WithContext(clientip.WithContext(r.Context(), "203.0.113.5"))
	assert.Equal(t, "203.0.113.5", ratelimiter.ByClientIP(clientip.NewResolver())(r))
}

func TestComposite(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	static := func(s string) ratelimiter.KeyFunc { return func(*http.Request) string { return s } }

	assert.Equal(t, "a:b", ratelimiter.Composite(static("a"), static(""), static("b"))(r))
	assert.Empty(t, ratelimiter.Composite(static(""))(r))

	long := ratelimiter.Composite(static(strings.Repeat("x", 50)), static(strings.Repeat("y", 50)))(r)
	assert.LessOrEqual(t, len(long), 13)
	assert.Equal(t, long, ratelimiter.Composite(static(strings.Repeat("x", 50)), static(strings.Repeat("y", 50)))(r))
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Zero(t, ratelimiter.Result{Remaining: 0, ResetAt: now.Add(time.Minute)}.RetryAfter(now))
	assert.Equal(t, time.Minute, ratelimiter.Result{Remaining: -1, ResetAt: now.Add(time.Minute)}.RetryAfter(now))
	assert.Zero(t, ratelimiter.Result{Remaining: -1, ResetAt: now.Add(-time.Minute)}.RetryAfter(now))
}
