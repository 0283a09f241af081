package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/svc/auth"
)

const secret = "test-secret-that-is-at-least-32-bytes-long"

func sign(t *testing.T, key string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func newVerifier(t *testing.T, clk clock.Clock) *auth.Verifier {
	t.Helper()
	v, err := auth.NewVerifier(secret, auth.WithClock(clk))
	require.NoError(t, err)
	return v
}

func TestNewVerifier_WeakSecret(t *testing.T) {
	t.Parallel()
	_, err := auth.NewVerifier("short")
	assert.ErrorIs(t, err, auth.ErrWeakSecret)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	v := newVerifier(t, clk)
	exp := clk.Now().Add(time.Hour)

	t.Run("valid token with id claim", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "email": "a@example.com", "exp": exp.Unix()})

		s, err := v.Verify(tok, auth.KindUser)
		require.NoError(t, err)
		assert.Equal(t, auth.KindUser, s.Kind)
		assert.Equal(t, "u1", s.Subject)
		assert.Equal(t, "a@example.com", s.Email)
		assert.Equal(t, exp.Unix(), s.ExpiresAt.Unix())
		assert.Equal(t, "user:u1", s.Binding())
	})

	t.Run("falls back to sub claim", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a7", "exp": exp.Unix()})

		s, err := v.Verify(tok, auth.KindSuperAdmin)
		require.NoError(t, err)
		assert.Equal(t, "super_admin:a7", s.Binding())
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "exp": clk.Now().Add(-time.Minute).Unix()})
		_, err := v.Verify(tok, auth.KindUser)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("missing expiry", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1"})
		_, err := v.Verify(tok, auth.KindUser)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, "another-secret-that-is-at-least-32-bytes", jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "exp": exp.Unix()})
		_, err := v.Verify(tok, auth.KindUser)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, secret, jwt.SigningMethodHS512, jwt.MapClaims{"id": "u1", "exp": exp.Unix()})
		_, err := v.Verify(tok, auth.KindUser)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("no subject", func(t *testing.T) {
		t.Parallel()
		tok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com", "exp": exp.Unix()})
		_, err := v.Verify(tok, auth.KindUser)
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})
}

func TestCookies(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	v := newVerifier(t, clk)
	tok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "exp": clk.Now().Add(time.Hour).Unix()})

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()
		_, err := v.UserSession(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("user cookie is not an admin cookie", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "user_token", Value: tok})

		s, err := v.UserSession(req)
		require.NoError(t, err)
		assert.Equal(t, auth.KindUser, s.Kind)

		_, err = v.AdminSession(req)
		assert.ErrorIs(t, err, auth.ErrNoSession)
	})

	t.Run("custom cookie names", func(t *testing.T) {
		t.Parallel()
		cv, err := auth.NewFromConfig(auth.Config{JWTSecret: secret, AdminCookie: "admin"}, auth.WithClock(clk))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "admin", Value: tok})
		s, err := cv.AdminSession(req)
		require.NoError(t, err)
		assert.Equal(t, auth.KindSuperAdmin, s.Kind)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	v := newVerifier(t, clk)
	exp := clk.Now().Add(time.Hour).Unix()
	userTok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1", "exp": exp})
	adminTok := sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"id": "a1", "exp": exp})

	run := func(cookies ...*http.Cookie) *auth.Session {
		var got *auth.Session
		h := auth.Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = auth.SessionFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	assert.Nil(t, run())
	assert.Equal(t, "user:u1", run(&http.Cookie{Name: "user_token", Value: userTok}).Binding())
	assert.Equal(t, "super_admin:a1", run(
		&http.Cookie{Name: "user_token", Value: userTok},
		&http.Cookie{Name: "super_admin_token", Value: adminTok},
	).Binding())
	assert.Nil(t, run(&http.Cookie{Name: "user_token", Value: "garbage"}))

	t.Run("both verified sessions are kept", func(t *testing.T) {
		var (
			ss auth.Sessions
			ok bool
		)
		h := auth.Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ss, ok = auth.SessionsFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "user_token", Value: userTok})
		req.AddCookie(&http.Cookie{Name: "super_admin_token", Value: adminTok})
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, ok)
		require.NotNil(t, ss.User)
		require.NotNil(t, ss.Admin)
		assert.Equal(t, "user:u1", ss.User.Binding())
		assert.Equal(t, "super_admin:a1", ss.Admin.Binding())
		assert.Same(t, ss.Admin, ss.Primary())
	})

	t.Run("anonymous request is marked as checked", func(t *testing.T) {
		var ok bool
		h := auth.Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok = auth.SessionsFromContext(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.True(t, ok)
	})
}

func TestSessionsFromContext_WithoutMiddleware(t *testing.T) {
	t.Parallel()

	_, ok := auth.SessionsFromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.WithSessions(context.Background(), auth.Sessions{User: &auth.Session{Kind: auth.KindUser, Subject: "u1"}})
	ss, ok := auth.SessionsFromContext(ctx)
	require.True(t, ok)
	assert.Nil(t, ss.Admin)
	assert.Equal(t, "user:u1", auth.SessionFromContext(ctx).Binding())
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := auth.LoggerExtractor()
	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(auth.WithSession(context.Background(), &auth.Session{Kind: auth.KindUser, Subject: "u1"}))
	require.True(t, ok)
	assert.Equal(t, "user:u1", attr.Value.String())
}
