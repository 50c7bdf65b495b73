// Package config loads the service configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration, read from taskboard.yaml.
type Config struct {
	Database Database `yaml:"database"`
	Server   Server   `yaml:"server"`
	Sweep    Sweep    `yaml:"sweep"`
	SMTP     SMTP     `yaml:"smtp"`
}

// Database holds storage settings.
type Database struct {
	Path string `yaml:"path"`
}

// Server holds HTTP listener settings.
type Server struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Sweep holds scheduled sweep settings.
type Sweep struct {
	Cron string `yaml:"cron"`
}

// SMTP holds the optional mail channel settings. The mail channel is only
// wired when a host is configured.
type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"` // Prefer the TASKBOARD_SMTP_PASSWORD env var
	From     string `yaml:"from"`
}

// Enabled reports whether the mail channel should be wired.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Database: Database{Path: "taskboard.db"},
		Server:   Server{ListenAddr: ":8080"},
		Sweep:    Sweep{Cron: "0 * * * *"},
		SMTP:     SMTP{Port: 587},
	}
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist. Environment variables override file values for
// settings that are deployment-specific or secret.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("could not parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKBOARD_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TASKBOARD_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("TASKBOARD_SWEEP_CRON"); v != "" {
		cfg.Sweep.Cron = v
	}
	if v := os.Getenv("TASKBOARD_SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
}
