package csrf

import "errors"

var (
	ErrUnauthenticated = errors.New("csrf: no valid session")
	ErrIssuanceFailed  = errors.New("csrf: token issuance failed")
	ErrTokenMissing    = errors.New("csrf: token header missing")
	ErrTokenMismatch   = errors.New("csrf: token does not match")
	ErrTokenNotFound   = errors.New("csrf: no live token for binding")
	ErrUnknownStore    = errors.New("csrf: unknown store kind")
)

// Client-facing messages.
const (
	MessageUnauthenticated = "認証が必要です"
	MessageIssuanceFailed  = "CSRFトークンの発行に失敗しました"
	MessageInvalidToken    = "CSRFトークンが無効です"
)
