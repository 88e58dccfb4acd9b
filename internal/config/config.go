package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Sheets struct {
		SpreadsheetID string `yaml:"spreadsheet_id"`
		Worksheet     string `yaml:"worksheet"`
		AccessToken   string `yaml:"access_token"`
	} `yaml:"sheets"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Sampler struct {
		Seed int64 `yaml:"seed"`
	} `yaml:"sampler"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("SHEETS_WORKSHEET"); v != "" {
		cfg.Sheets.Worksheet = v
	}
	if v := os.Getenv("SHEETS_ACCESS_TOKEN"); v != "" {
		cfg.Sheets.AccessToken = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SAMPLER_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Sampler.Seed = seed
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Sheets.Worksheet == "" {
		cfg.Sheets.Worksheet = "latest"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}

	return cfg, nil
}

// Validate checks that the configured store backend is usable.
func (c *Config) Validate() error {
	if c.Sheets.SpreadsheetID != "" && c.Sheets.AccessToken == "" {
		return fmt.Errorf("sheets.access_token is required when sheets.spreadsheet_id is set")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	return nil
}
