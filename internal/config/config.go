// Package config loads server settings from the environment. Command line
// flags may override individual fields after parsing.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Server struct {
		Bind     string        `env:"TASKDECK_BIND" envDefault:"localhost:7110"`
		Backend  string        `env:"TASKDECK_STORE" envDefault:"memory"`
		DBPath   string        `env:"TASKDECK_DB" envDefault:"taskdeck.db"`
		TokenTTL time.Duration `env:"TASKDECK_TOKEN_TTL" envDefault:"168h"`
	}
)

func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("config: cannot parse environment, cause %w", err)
	}
	if cfg.Backend != "memory" && cfg.Backend != "sqlite" {
		return Server{}, fmt.Errorf("config: unknown store backend %v", cfg.Backend)
	}
	return cfg, nil
}
