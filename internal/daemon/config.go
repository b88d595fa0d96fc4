// Package daemon holds the process-level configuration shared by the CLI
// and the HTTP server.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// ConfigFile is the config file name inside the dream bank home.
const ConfigFile = "config.toml"

// Config is the on-disk configuration ($DREAMBANK_HOME/config.toml).
// Environment variables override file values.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig is the [api] section.
type APIConfig struct {
	Host string `toml:"host" env:"DREAMBANK_API_HOST"`
	Port int    `toml:"port" env:"DREAMBANK_API_PORT"`
}

// StorageConfig is the [storage] section. Dir holds dreambank.db.
type StorageConfig struct {
	Dir string `toml:"dir" env:"DREAMBANK_DATA_DIR"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
}

// MetricsConfig is the [metrics] section. Enabled exposes /metrics on the API.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" env:"DREAMBANK_METRICS"`
}

// Home returns the dream bank home directory: $DREAMBANK_HOME, or
// ~/.dreambank.
func Home() string {
	if h := os.Getenv("DREAMBANK_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dreambank"
	}
	return filepath.Join(home, ".dreambank")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API:     APIConfig{Host: "127.0.0.1", Port: 8501},
		Storage: StorageConfig{Dir: Home()},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LoadConfig reads path over DefaultConfig and applies environment
// overrides. A missing file is not an error. An empty path means
// Home()/config.toml.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(Home(), ConfigFile)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api.port %d", c.API.Port)
	}
	if c.Storage.Dir == "" {
		return errors.New("storage.dir must not be empty")
	}
	if _, err := logrus.ParseLevel(strings.TrimSpace(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// Addr returns the API listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// Save writes the config as TOML, creating the parent directory.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
