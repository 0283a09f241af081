package cookie

import "net/http"

// Config is the env-tagged cookie configuration. The first secret signs new
// cookies; the rest are accepted for verification during key rotation.
type Config struct {
	Secrets  []string `env:"COOKIE_SECRETS,required" envSeparator:","`
	Domain   string   `env:"COOKIE_DOMAIN"`
	Secure   bool     `env:"COOKIE_SECURE" envDefault:"true"`
	SameSite string   `env:"COOKIE_SAME_SITE" envDefault:"lax"`
}

// NewFromConfig builds a Manager from cfg with opts applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	base := []Option{WithSecure(cfg.Secure), WithSameSite(parseSameSite(cfg.SameSite))}
	if cfg.Domain != "" {
		base = append(base, WithDomain(cfg.Domain))
	}
	return New(cfg.Secrets, append(base, opts...)...)
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
