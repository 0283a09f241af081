// Package cookie signs and verifies HTTP cookies with HMAC-SHA256. Signing
// keys are derived from the configured secrets with HKDF.
//
// Secrets rotate by prepending a new secret: the first one signs, all of them
// verify. Values are readable by the client, so only non-secret identifiers
// such as the anonymous CSRF binding id belong in these cookies.
package cookie
