// Package clientip resolves the originating client address of a request.
//
// By default only the TCP peer address is used. Behind a reverse proxy that
// rewrites forwarding headers, WithTrustProxyHeaders makes the resolver look
// at CF-Connecting-IP, X-Forwarded-For (first valid entry) and X-Real-IP
// before falling back to RemoteAddr. Addresses are normalized: IPv4-mapped
// IPv6 becomes plain IPv4 and zones are dropped.
package clientip
