package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache  sync.Map
	dotenv sync.Once
)

// Load parses environment variables into cfg and caches the result per
// configuration type. Subsequent calls with the same type return the cached
// value, so a config struct is only resolved from the environment once per
// process lifetime.
//
// A .env file in the working directory is loaded on first use; a missing file
// is not an error.
func Load[T any](cfg *T) error {
	dotenv.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure. Useful during application
// startup where a missing required variable should abort the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
