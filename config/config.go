package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete pnlhub configuration
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Ledger LedgerConfig `json:"ledger" yaml:"ledger"`
	Admin  AdminConfig  `json:"admin" yaml:"admin"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port           int      `json:"port" yaml:"port"`
	DevMode        bool     `json:"dev_mode" yaml:"dev_mode"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// StoreConfig selects the persistence adapter
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // "memory", "file" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LogConfig mirrors logger.Config
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LedgerConfig controls how "today" is determined
type LedgerConfig struct {
	Timezone string `json:"timezone" yaml:"timezone"` // IANA name, "UTC" or "Local"
}

// AdminConfig holds the shared secret for admin routes
type AdminConfig struct {
	Password string `json:"password" yaml:"password"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load builds the runtime configuration: defaults, then the optional file,
// then .env and PNLHUB_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PNLHUB_* variables. getenv is injected
// for tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("PNLHUB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := getenv("PNLHUB_DEV_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.DevMode = b
		}
	}
	if v := getenv("PNLHUB_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := getenv("PNLHUB_STORE_TYPE"); v != "" {
		c.Store.Type = v
	}
	if v := getenv("PNLHUB_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("PNLHUB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PNLHUB_LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.Pretty = b
		}
	}
	if v := getenv("PNLHUB_TIMEZONE"); v != "" {
		c.Ledger.Timezone = v
	}
	if v := getenv("PNLHUB_ADMIN_PASSWORD"); v != "" {
		c.Admin.Password = v
	}
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Location resolves Ledger.Timezone
func (c *Config) Location() (*time.Location, error) {
	switch c.Ledger.Timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Ledger.Timezone)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Store.Type {
	case "memory":
	case "file", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for %s store", c.Store.Type)
		}
	default:
		return fmt.Errorf("store.type must be 'memory', 'file' or 'sqlite'")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("ledger.timezone: %w", err)
	}
	if c.Admin.Password == "" {
		return fmt.Errorf("admin.password is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults. The admin
// password is left empty and must be set before the config validates.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Type: "sqlite",
			Path: "./pnlhub.sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
		Ledger: LedgerConfig{
			Timezone: "UTC",
		},
	}
}
