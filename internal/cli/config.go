package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/gatehouse/internal/sweep"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultPort      = 8080
)

// Config holds gatehouse settings read from disk.
type Config struct {
	ServerURL     string        `yaml:"server_url,omitempty"`
	Guard         string        `yaml:"guard,omitempty"`
	Port          int           `yaml:"port,omitempty"`
	SweepInterval time.Duration `yaml:"sweep_interval,omitempty"`
	MaxVisitHours float64       `yaml:"max_visit_hours,omitempty"`
	Timezone      string        `yaml:"timezone,omitempty"`
	Dev           bool          `yaml:"dev,omitempty"`
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gate", "config.yaml"), nil
}

// loadConfig reads the config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// resolveConfig loads the config file, applies GATE_* environment
// overrides and fills defaults.
func resolveConfig() (Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return Config{}, err
	}

	if v := os.Getenv("GATE_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("GATE_GUARD"); v != "" {
		cfg.Guard = v
	}
	if v := os.Getenv("GATE_DEV"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("GATE_DEV must be a boolean, got %q", v)
		}
		cfg.Dev = dev
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = defaultServerURL
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = sweep.DefaultInterval
	}
	if cfg.MaxVisitHours <= 0 {
		cfg.MaxVisitHours = visitor.DefaultMaxDuration.Hours()
	}

	return cfg, nil
}

// MaxDuration is how long a visit may last before it is overdue.
func (c Config) MaxDuration() time.Duration {
	return time.Duration(c.MaxVisitHours * float64(time.Hour))
}

// Location is the zone visit dates and times are read in. An empty
// timezone means the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// getServerURL returns the server URL from the --server flag, env var,
// config, or default.
func getServerURL() string {
	if flagServer != "" {
		return flagServer
	}
	if v := os.Getenv("GATE_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}

// getGuard returns the guard on duty from env var or config.
func getGuard() string {
	if v := os.Getenv("GATE_GUARD"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil {
		return cfg.Guard
	}
	return ""
}
