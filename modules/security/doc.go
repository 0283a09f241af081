// Package security mounts the CSRF token issuance routes.
package security
