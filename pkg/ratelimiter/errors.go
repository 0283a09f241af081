package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrUnknownStore      = errors.New("ratelimiter: unknown store kind")
)

// MessageTooManyRequests is the body of 429 responses.
const MessageTooManyRequests = "リクエストが多すぎます。しばらくしてから再度お試しください"
