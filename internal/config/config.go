package config

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"

	"velocimex/internal/logger"
	"velocimex/internal/metrics"
)

// Config contains all application configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Venue   VenueConfig    `yaml:"venue"`
	Engine  EngineConfig   `yaml:"engine"`
	Logger  logger.Config  `yaml:"logger"`
	Metrics metrics.Config `yaml:"metrics"`
}

// ServerConfig contains HTTP server configuration for the metrics/health endpoints.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
}

// VenueConfig describes the venue adapter endpoint and the symbols it should
// subscribe to on connect.
type VenueConfig struct {
	Name      string   `yaml:"name"`
	URL       string   `yaml:"url"`
	APIKey    string   `yaml:"apiKey,omitempty"`
	APISecret string   `yaml:"apiSecret,omitempty"`
	Symbols   []string `yaml:"symbols"`
}

// EngineConfig carries the parameters the engine needs beyond its adapter
// and logger: the margin requirement applied to every order and how
// often OnTimer sweeps the active strategy set.
type EngineConfig struct {
	MarginRequirement string        `yaml:"marginRequirement"`
	TickInterval      time.Duration `yaml:"tickInterval"`
	InitialBalance    string        `yaml:"initialBalance"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Engine.TickInterval <= 0 {
		cfg.Engine.TickInterval = 100 * time.Millisecond
	}
	if err := cfg.Logger.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
