package tenant

import "errors"

var (
	ErrOrganizationNotFound = errors.New("tenant: organization not found")
	ErrLookupFailed         = errors.New("tenant: organization lookup failed")
	ErrUnknownStore         = errors.New("tenant: unknown store kind")
	ErrInvalidSeed          = errors.New("tenant: invalid seed file")
)
