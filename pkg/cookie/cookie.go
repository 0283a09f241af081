package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

const (
	minSecretLength = 32
	// signingInfo separates cookie signing keys from any other use of the
	// same configured secret.
	signingInfo = "fieldhub-cookie-signing-v1"
)

var encoding = base64.RawURLEncoding

// Manager writes and reads HMAC-signed cookies.
type Manager struct {
	secrets  [][]byte
	defaults Options
}

// New returns a Manager. Every non-empty secret must be at least 32 bytes.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([][]byte, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, errors.Join(ErrSecretTooShort, fmt.Errorf("secret %d has %d bytes, need %d", i, len(s), minSecretLength))
		}
		key, err := deriveSigningKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}.with(opts)

	return &Manager{secrets: keys, defaults: defaults}, nil
}

// SetSigned writes value with a signature that also covers the cookie name, so
// a signed value cannot be replayed under another cookie.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) {
	m.set(w, name, encoding.EncodeToString([]byte(value))+"."+m.mac(m.secrets[0], name, value), opts)
}

// GetSigned returns the verified value of the named cookie.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", ErrCookieNotFound
	}

	encoded, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	value := string(raw)

	for _, key := range m.secrets {
		if hmac.Equal([]byte(sig), []byte(m.mac(key, name, value))) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	m.set(w, name, "", []Option{WithMaxAge(-1)})
}

func (m *Manager) set(w http.ResponseWriter, name, value string, opts []Option) {
	o := m.defaults.with(opts)
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
	if o.MaxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	http.SetCookie(w, c)
}

func deriveSigningKey(secret string) ([]byte, error) {
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(signingInfo)), key); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}
	return key, nil
}

func (m *Manager) mac(key []byte, name, value string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return encoding.EncodeToString(h.Sum(nil))
}
