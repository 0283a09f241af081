package csrf_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/pkg/csrf"
	"github.com/dmitrymomot/fieldhub/pkg/csrfclient"
)

func TestStoreMinter_FetchRenewsLifetime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := clock.NewMock()
	store := csrf.NewMemoryStore(10, clk)
	m := csrf.NewStoreMinter(store, csrf.WithMinterClock(clk))

	first, err := m.MintOrFetch(ctx, "user:u1")
	require.NoError(t, err)

	clk.Add(23*time.Hour + 30*time.Minute)
	second, err := m.MintOrFetch(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, clk.Now().Add(csrf.DefaultTTL), second.ExpiresAt)

	clk.Add(csrfclient.CacheTTL)
	live, err := store.Get(ctx, "user:u1")
	require.NoError(t, err, "a fetched token outlives the client cache")
	assert.Equal(t, first.Value, live.Value)
}

func TestMemoryStore_NeverShortensLiveToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := clock.NewMock()
	s := csrf.NewMemoryStore(10, clk)

	long := csrf.Token{Value: "v1", IssuedAt: clk.Now(), ExpiresAt: clk.Now().Add(time.Hour)}
	_, err := s.GetOrCreate(ctx, "user:u1", long)
	require.NoError(t, err)

	short := csrf.Token{Value: "v2", IssuedAt: clk.Now(), ExpiresAt: clk.Now().Add(time.Minute)}
	got, err := s.GetOrCreate(ctx, "user:u1", short)
	require.NoError(t, err)
	assert.Equal(t, long, got)

	clk.Add(30 * time.Minute)
	got, err = s.Get(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Value)
}

func TestClientCache_TokenStaysValidOnServer(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	store := csrf.NewMemoryStore(10, clk)
	h := csrf.NewHandler(store, csrf.NewStoreMinter(store, csrf.WithMinterClock(clk)),
		stubSessions{admin: adminSession}, newCookies(t))

	mux := http.NewServeMux()
	mux.Handle("GET /api/admin/csrf", h.Admin())
	mux.Handle("POST /api/items", h.Verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	newClient := func() *csrfclient.Client {
		c, err := csrfclient.New(srv.URL, csrfclient.WithAdminEndpoint(), csrfclient.WithClock(clk),
			csrfclient.WithHTTPClient(srv.Client()))
		require.NoError(t, err)
		return c
	}
	post := func(c *csrfclient.Client) int {
		resp, err := c.HTTPClient().Post(srv.URL+"/api/items", "application/json", strings.NewReader("{}"))
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	first := newClient()
	tok, err := first.GetToken(t.Context())
	require.NoError(t, err)

	// a second tab for the same super-admin late in the token's life
	clk.Add(23*time.Hour + 30*time.Minute)
	second := newClient()
	again, err := second.GetToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, tok, again, "the live token is shared by the binding")

	clk.Add(time.Hour)
	assert.Equal(t, http.StatusNoContent, post(second), "cached token still verifies after the original lifetime")

	clk.Add(csrfclient.CacheTTL - time.Hour - time.Minute)
	cached, err := second.GetToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, tok, cached, "still served from the client cache")
	assert.Equal(t, http.StatusNoContent, post(second), "cached token verifies until the client cache expires")
}
