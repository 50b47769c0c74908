package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// PostgresDSN is optional; without it the server runs purely in memory
	// and records nothing.
	PostgresDSN string `env:"POSTGRES_DSN"`

	SeatCount int `env:"SEAT_COUNT" envDefault:"2"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
