// Package config loads env-tagged configuration structs.
//
// It wraps github.com/caarlos0/env for parsing and github.com/joho/godotenv for
// local .env files. Every package that needs settings declares its own Config
// struct with `env` and `envDefault` tags; the application aggregates them and
// calls Load once at startup.
package config
