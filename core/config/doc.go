// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/LeonMueller-OneAndOnly/blitz/core/config"
//
//	type StoreConfig struct {
//		URL     string `env:"DATABASE_URL,required"`
//		Timeout int    `env:"DATABASE_TIMEOUT" envDefault:"30"`
//	}
//
//	func main() {
//		var cfg StoreConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// Each configuration type is loaded only once per application lifetime;
// different types are cached independently.
package config
