package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind tells end-user sessions from super-admin sessions.
type Kind string

const (
	KindUser       Kind = "user"
	KindSuperAdmin Kind = "super_admin"
)

// Session is the verified content of a session cookie.
type Session struct {
	Kind      Kind
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Binding is the stable identity other components key per-session state on,
// for example "user:42" or "super_admin:7".
func (s *Session) Binding() string {
	return string(s.Kind) + ":" + s.Subject
}

// sessionClaims matches the payload written at login: the account id travels
// in "id", older tokens only carry "sub".
type sessionClaims struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *sessionClaims) subject() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Subject
}
