package app

import (
	"github.com/dmitrymomot/fieldhub/pkg/config"
	"github.com/dmitrymomot/fieldhub/pkg/cookie"
	"github.com/dmitrymomot/fieldhub/pkg/csrf"
	"github.com/dmitrymomot/fieldhub/pkg/environment"
	"github.com/dmitrymomot/fieldhub/pkg/httpserver"
	"github.com/dmitrymomot/fieldhub/pkg/pg"
	"github.com/dmitrymomot/fieldhub/pkg/ratelimiter"
	"github.com/dmitrymomot/fieldhub/pkg/redis"
	"github.com/dmitrymomot/fieldhub/pkg/tenant"
	"github.com/dmitrymomot/fieldhub/svc/auth"
)

// Config aggregates every component configuration. Nested structs carry their
// own env tags.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Name     string `env:"APP_NAME" envDefault:"fieldhub"`
	LogLevel string `env:"LOG_LEVEL"`
	// TrustProxyHeaders makes client address resolution honour forwarding
	// headers. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `env:"HTTP_TRUST_PROXY_HEADERS" envDefault:"false"`

	HTTP   httpserver.Config
	PG     pg.Config
	Redis  redis.Config
	Cookie cookie.Config
	Auth   auth.Config
	CSRF   csrf.Config
	Tenant tenant.Config
	Limit  ratelimiter.Config
}

// Environment parses Env.
func (c Config) Environment() environment.Environment {
	return environment.Parse(c.Env)
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
