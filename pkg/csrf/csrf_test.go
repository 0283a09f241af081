package csrf_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/pkg/cookie"
	"github.com/dmitrymomot/fieldhub/pkg/csrf"
	"github.com/dmitrymomot/fieldhub/svc/auth"
)

const cookieSecret = "csrf-binding-cookie-secret-32-bytes-min"

type stubSessions struct {
	user  *auth.Session
	admin *auth.Session
}

func (s stubSessions) UserSession(*http.Request) (*auth.Session, error) {
	if s.user == nil {
		return nil, auth.ErrNoSession
	}
	return s.user, nil
}

func (s stubSessions) AdminSession(*http.Request) (*auth.Session, error) {
	if s.admin == nil {
		return nil, auth.ErrNoSession
	}
	return s.admin, nil
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) UserSession(r *http.Request) (*auth.Session, error) {
	args := m.Called(r)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func (m *mockSessions) AdminSession(r *http.Request) (*auth.Session, error) {
	args := m.Called(r)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

type mockMinter struct {
	mock.Mock
}

func (m *mockMinter) MintOrFetch(ctx context.Context, binding string) (csrf.Token, error) {
	args := m.Called(ctx, binding)
	tok, _ := args.Get(0).(csrf.Token)
	return tok, args.Error(1)
}

type failingStore struct {
	err error
}

func (s failingStore) GetOrCreate(context.Context, string, csrf.Token) (csrf.Token, error) {
	return csrf.Token{}, s.err
}

func (s failingStore) Get(context.Context, string) (csrf.Token, error) {
	return csrf.Token{}, s.err
}

type countingObserver struct {
	issued   map[string]int
	rejected map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{issued: map[string]int{}, rejected: map[string]int{}}
}

func (o *countingObserver) ObserveTokenIssued(kind string)     { o.issued[kind]++ }
func (o *countingObserver) ObserveTokenRejected(reason string) { o.rejected[reason]++ }

var errBackend = errors.New("backend unavailable")

func newCookies(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{cookieSecret}, cookie.WithSecure(false))
	require.NoError(t, err)
	return m
}

var (
	userSession  = &auth.Session{Kind: auth.KindUser, Subject: "u1"}
	adminSession = &auth.Session{Kind: auth.KindSuperAdmin, Subject: "a1"}
)
