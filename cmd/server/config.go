package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// config is the server's environment-driven configuration.
type config struct {
	ListenAddr string `env:"MENAGERIE_LISTEN_ADDR" envDefault:":8080"`
	RedisAddr  string `env:"MENAGERIE_REDIS_ADDR"  envDefault:"localhost:6379"`
	// Entropy overrides the environment-derived tamper-tag entropy so a
	// fleet of servers can share stored records. Empty uses the local
	// environment fingerprint.
	Entropy string `env:"MENAGERIE_ENTROPY"`
	// CirculatingSupply and TotalBurned are the ecosystem figures pricing
	// scales by, normally pushed by the ecosystem poller. Zero supply
	// means launch supply.
	CirculatingSupply int64 `env:"MENAGERIE_CIRCULATING_SUPPLY"`
	TotalBurned       int64 `env:"MENAGERIE_TOTAL_BURNED"`
}

func loadConfig() (*config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
