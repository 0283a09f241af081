package tenant

import (
	"net"
	"slices"
	"strings"
)

const localhost = "localhost"

// HostContext is what the tenant layer knows about a request's Host header.
// It is computed per request and never cached.
type HostContext struct {
	Hostname     string
	Port         string
	Subdomain    string
	HasSubdomain bool
}

// NewHostContext parses a Host header value. The hostname is lower-cased
// because host names are case-insensitive and stored subdomains are lowercase.
func NewHostContext(host string) HostContext {
	hostname, port := splitHostPort(strings.ToLower(strings.TrimSpace(host)))
	hc := HostContext{Hostname: hostname, Port: port}
	hc.Subdomain, hc.HasSubdomain = ResolveSubdomain(hostname)
	return hc
}

// ResolveSubdomain extracts the tenant label from a hostname, with or without
// a port.
//
//	acme.localhost:3000    -> "acme"
//	a.b.localhost          -> "b"
//	acme.example.com       -> "acme"
//	localhost, example.com -> none
//
// IP addresses never carry a subdomain. The function never fails; anything
// it does not recognise yields none.
func ResolveSubdomain(hostname string) (string, bool) {
	host, _ := splitHostPort(hostname)
	host = strings.TrimSuffix(host, ".")
	if host == "" || net.ParseIP(host) != nil {
		return "", false
	}

	labels := strings.Split(host, ".")
	if slices.Contains(labels, "") {
		return "", false
	}

	n := len(labels)
	if strings.EqualFold(labels[n-1], localhost) {
		if n < 2 {
			return "", false
		}
		return labels[n-2], true
	}

	if n < 3 {
		return "", false
	}
	return labels[0], true
}

// splitHostPort separates an optional port. Bracketed IPv6 literals keep
// their address without brackets; bare IPv6 literals have no port.
func splitHostPort(host string) (string, string) {
	if strings.HasPrefix(host, "[") {
		if h, p, err := net.SplitHostPort(host); err == nil {
			return h, p
		}
		return strings.Trim(host, "[]"), ""
	}
	if strings.Count(host, ":") == 1 {
		h, p, _ := strings.Cut(host, ":")
		return h, p
	}
	return host, ""
}
