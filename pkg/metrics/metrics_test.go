package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/pkg/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObservers(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveTokenIssued("super_admin")
	m.ObserveTokenIssued("super_admin")
	m.ObserveTokenRejected("mismatch")
	m.ObserveTenantLookup("failed")
	m.ObserveRateLimited("csrf_issuance")

	out := scrape(t, m)
	assert.Contains(t, out, `fieldhub_csrf_tokens_issued_total{kind="super_admin"} 2`)
	assert.Contains(t, out, `fieldhub_csrf_tokens_rejected_total{reason="mismatch"} 1`)
	assert.Contains(t, out, `fieldhub_tenant_lookups_total{outcome="failed"} 1`)
	assert.Contains(t, out, `fieldhub_ratelimit_rejected_total{scope="csrf_issuance"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/orgs/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orgs/"+id, nil))
	}

	out := scrape(t, m)
	assert.Contains(t, out, `fieldhub_http_requests_total{method="GET",route="/orgs/{id}",status="202"} 3`)
	assert.NotContains(t, out, `route="/orgs/1"`)
}

func TestNew_Independent(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		metrics.New()
		metrics.New()
	})
}
