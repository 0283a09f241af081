package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// proxyHeaders are consulted in order when proxy headers are trusted.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver derives the client address of a request.
type Resolver struct {
	trustProxy bool
}

type Option func(*Resolver)

// WithTrustProxyHeaders honours CF-Connecting-IP, X-Forwarded-For and
// X-Real-IP. Enable it only behind a proxy that overwrites them; otherwise
// clients choose their own address and slip past per-IP limits.
func WithTrustProxyHeaders(trust bool) Option {
	return func(r *Resolver) { r.trustProxy = trust }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IP returns the normalized client address or "" when none is valid.
func (res *Resolver) IP(r *http.Request) string {
	if res.trustProxy {
		for _, h := range proxyHeaders {
			v := r.Header.Get(h)
			if v == "" {
				continue
			}
			// X-Forwarded-For lists the original client first
			for part := range strings.SplitSeq(v, ",") {
				if ip := normalize(part); ip != "" {
					return ip
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
