package main

import (
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Config holds the server's settings. Values come from an optional
// key=value config file, with environment variables taking precedence.
type Config struct {
	// ListenHost may be blank to listen on all interfaces.
	ListenHost string `env:"MULTICHAT_LISTEN_HOST"`
	ListenPort string `env:"MULTICHAT_LISTEN_PORT"`

	// DataDir is where the persistent state files live.
	DataDir string `env:"MULTICHAT_DATA_DIR"`

	// MetricsAddress serves Prometheus metrics when non-blank, e.g.
	// "localhost:9187".
	MetricsAddress string `env:"MULTICHAT_METRICS_ADDRESS"`

	// FloodRate is lines per second each connection may read; FloodBurst
	// is the burst allowance. A rate of zero disables the limiter.
	FloodRate  float64 `env:"MULTICHAT_FLOOD_RATE"`
	FloodBurst int     `env:"MULTICHAT_FLOOD_BURST"`
}

func defaultConfig() Config {
	return Config{
		ListenPort: "8989",
		DataDir:    ".",
		FloodRate:  10,
		FloodBurst: 50,
	}
}

// loadConfig builds the configuration from the defaults, the optional
// config file, and the environment, in that order.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		values, err := config.ReadStringMap(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "reading config file")
		}
		if err := applyFileConfig(&cfg, values); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing environment")
	}

	if cfg.FloodBurst < 1 {
		cfg.FloodBurst = 1
	}
	return cfg, nil
}

func applyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		switch key {
		case "listen-host":
			cfg.ListenHost = value
		case "listen-port":
			cfg.ListenPort = value
		case "data-dir":
			cfg.DataDir = value
		case "metrics-address":
			cfg.MetricsAddress = value
		case "flood-rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid flood-rate %q", value)
			}
			cfg.FloodRate = rate
		case "flood-burst":
			burst, err := strconv.Atoi(value)
			if err != nil {
				return errors.Wrapf(err, "invalid flood-burst %q", value)
			}
			cfg.FloodBurst = burst
		default:
			return errors.Errorf("unknown config key %q", key)
		}
	}
	return nil
}
