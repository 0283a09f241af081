package tenant

import (
	"time"
)

const DefaultOrganizationName = "組織名未設定"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the env-tagged tenant configuration.
type Config struct {
	DefaultName        string        `env:"TENANT_DEFAULT_NAME" envDefault:"組織名未設定"`
	Store              string        `env:"TENANT_STORE" envDefault:"postgres"`
	CacheTTL           time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	CacheSize          int           `env:"TENANT_CACHE_SIZE" envDefault:"1024"`
	TrustForwardedHost bool          `env:"TENANT_TRUST_FORWARDED_HOST" envDefault:"false"`
	// SeedFile preloads the memory store; ignored by the postgres store.
	SeedFile string `env:"TENANT_SEED_FILE"`
}

// FallbackName is the label shown when no organization name is available.
func (c Config) FallbackName() string {
	if c.DefaultName == "" {
		return DefaultOrganizationName
	}
	return c.DefaultName
}
