package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu     sync.Mutex
	loaded = map[reflect.Type]any{}
)

// Load populates v from environment variables using `env` struct tags.
// A .env file in the working directory is read once per process, if present.
// Each config type is parsed once; later calls for the same type receive the
// cached copy.
//
//	type Config struct {
//		DefaultName string `env:"TENANT_DEFAULT_NAME" envDefault:"組織名未設定"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// a missing .env file is the normal case outside development
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset forgets every cached config type. Tests use it between cases that set
// different environment variables for the same type.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loaded = map[reflect.Type]any{}
}
