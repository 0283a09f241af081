package csrfclient

import "errors"

var (
	ErrTokenIssuanceFailed = errors.New("csrfclient: token issuance failed")
	ErrInvalidBaseURL      = errors.New("csrfclient: invalid base URL")
)
