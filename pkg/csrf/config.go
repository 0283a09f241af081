package csrf

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the env-tagged CSRF configuration.
type Config struct {
	Store          string        `env:"CSRF_STORE" envDefault:"memory"`
	ServerTTL      time.Duration `env:"CSRF_SERVER_TTL" envDefault:"24h"`
	BindingCookie  string        `env:"CSRF_BINDING_COOKIE" envDefault:"csrf_binding"`
	SecureCookies  bool          `env:"CSRF_SECURE_COOKIES" envDefault:"true"`
	MemoryCapacity int           `env:"CSRF_MEMORY_CAPACITY" envDefault:"100000"`
}

// NewStore builds the store selected by cfg.Store. client may be nil unless
// the redis store is selected.
func NewStore(cfg Config, client redis.Cmdable, clk clock.Clock) (Store, error) {
	switch cfg.Store {
	case "", StoreMemory:
		return NewMemoryStore(cfg.MemoryCapacity, clk), nil
	case StoreRedis:
		if client == nil {
			return nil, ErrUnknownStore
		}
		return NewRedisStore(client), nil
	default:
		return nil, ErrUnknownStore
	}
}
