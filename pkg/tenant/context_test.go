package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/pkg/tenant"
)

func captureHost(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) tenant.HostContext {
	t.Helper()
	var (
		hc tenant.HostContext
		ok bool
	)
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hc, ok = tenant.FromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok, "middleware must always set a HostContext")
	return hc
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("uses Host header", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://acme.localhost:3000/login", nil)
		hc := captureHost(t, tenant.Middleware(), req)
		assert.Equal(t, "acme", hc.Subdomain)
		assert.Equal(t, "3000", hc.Port)
	})

	t.Run("ignores forwarded host by default", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.Header.Set("X-Forwarded-Host", "evil.example.com")
		hc := captureHost(t, tenant.Middleware(), req)
		assert.False(t, hc.HasSubdomain)
	})

	t.Run("trusted forwarded host", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://internal:8080/", nil)
		req.Header.Set("X-Forwarded-Host", "acme.zairoku.com")
		hc := captureHost(t, tenant.Middleware(tenant.WithTrustForwardedHost()), req)
		assert.Equal(t, "acme", hc.Subdomain)
	})

	t.Run("trusted forwarded host list uses the first entry", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://internal:8080/", nil)
		req.Header.Set("X-Forwarded-Host", " acme.zairoku.com:8443 , lb.internal")
		hc := captureHost(t, tenant.Middleware(tenant.WithTrustForwardedHost()), req)
		assert.Equal(t, "acme", hc.Subdomain)
		assert.Equal(t, "acme.zairoku.com", hc.Hostname)
		assert.Equal(t, "8443", hc.Port)
	})

	t.Run("blank trusted forwarded host falls back to Host", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://beta.zairoku.com/", nil)
		req.Header.Set("X-Forwarded-Host", " , lb.internal")
		hc := captureHost(t, tenant.Middleware(tenant.WithTrustForwardedHost()), req)
		assert.Equal(t, "beta", hc.Subdomain)
	})

	t.Run("host without subdomain still sets context", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "http://localhost/", nil)
		hc := captureHost(t, tenant.Middleware(), req)
		assert.Equal(t, "localhost", hc.Hostname)
		assert.False(t, hc.HasSubdomain)
	})
}

func TestFromContext_Empty(t *testing.T) {
	t.Parallel()
	_, ok := tenant.FromContext(context.Background())
	assert.False(t, ok)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := tenant.LoggerExtractor()

	_, ok := extract(tenant.WithHostContext(context.Background(), tenant.NewHostContext("example.com")))
	assert.False(t, ok)

	attr, ok := extract(tenant.WithHostContext(context.Background(), tenant.NewHostContext("acme.localhost")))
	require.True(t, ok)
	assert.Equal(t, "subdomain", attr.Key)
	assert.Equal(t, "acme", attr.Value.String())
}
