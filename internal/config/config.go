// Package config loads process configuration from the environment. The
// resulting Config is passed into component constructors at startup; nothing
// in the core reads environment variables on its own.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Port         string `env:"PORT" envDefault:"3001"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/goodthings.db"`
	JWTSecret    string `env:"JWT_SECRET,required,notEmpty"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:3000"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	BcryptCost   int    `env:"BCRYPT_COST" envDefault:"10"`
}

// Load reads .env (if present) and parses the environment. A missing
// JWT_SECRET is an error: the signing key is a startup requirement.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
