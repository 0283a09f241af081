package app

import "errors"

var (
	ErrMissingDatabase = errors.New("app: TENANT_STORE=postgres requires PG_CONN_URL")
	ErrSetup           = errors.New("app: setup failed")
)
