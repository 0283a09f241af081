package auth

import (
	"errors"
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 32

// Verifier checks HS256 session cookies. It never creates sessions.
type Verifier struct {
	secret      []byte
	userCookie  string
	adminCookie string
	clock       clock.Clock
	parser      *jwt.Parser
}

type Option func(*Verifier)

// WithCookieNames overrides the user and super-admin cookie names. Empty
// values keep the defaults.
func WithCookieNames(user, admin string) Option {
	return func(v *Verifier) {
		if user != "" {
			v.userCookie = user
		}
		if admin != "" {
			v.adminCookie = admin
		}
	}
}

// WithClock sets the clock used for expiry checks.
func WithClock(c clock.Clock) Option {
	return func(v *Verifier) {
		if c != nil {
			v.clock = c
		}
	}
}

func NewVerifier(secret string, opts ...Option) (*Verifier, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	v := &Verifier{
		secret:      []byte(secret),
		userCookie:  "user_token",
		adminCookie: "super_admin_token",
		clock:       clock.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	return v, nil
}

// Verify parses raw and returns the session it encodes.
func (v *Verifier) Verify(raw string, kind Kind) (*Session, error) {
	var claims sessionClaims
	if _, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}

	sub := claims.subject()
	if sub == "" {
		return nil, errors.Join(ErrInvalidSession, errors.New("token has no subject"))
	}

	s := &Session{Kind: kind, Subject: sub, Email: claims.Email}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// UserSession verifies the end-user cookie on r.
func (v *Verifier) UserSession(r *http.Request) (*Session, error) {
	return v.fromCookie(r, v.userCookie, KindUser)
}

// AdminSession verifies the super-admin cookie on r.
func (v *Verifier) AdminSession(r *http.Request) (*Session, error) {
	return v.fromCookie(r, v.adminCookie, KindSuperAdmin)
}

// Sessions verifies both cookies on r. Invalid or missing cookies leave
// their field nil.
func (v *Verifier) Sessions(r *http.Request) Sessions {
	var ss Sessions
	if s, err := v.UserSession(r); err == nil {
		ss.User = s
	}
	if s, err := v.AdminSession(r); err == nil {
		ss.Admin = s
	}
	return ss
}

func (v *Verifier) fromCookie(r *http.Request, name string, kind Kind) (*Session, error) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	return v.Verify(c.Value, kind)
}
