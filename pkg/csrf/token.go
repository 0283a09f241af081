package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"time"
)

// tokenBytes is the entropy of a token before hex encoding.
const tokenBytes = 32

// Token is an issued anti-forgery value. Value is opaque to clients.
type Token struct {
	Value     string    `json:"value"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Matches compares candidate with the token value in constant time.
func (t Token) Matches(candidate string) bool {
	if t.Value == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t.Value), []byte(candidate)) == 1
}

func newTokenValue(r io.Reader) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

var defaultEntropy io.Reader = rand.Reader
