package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	envPrefix     = "SHELFMARK_"
	configFileENV = "CONFIG_FILE"
)

type Config struct {
	Environment               string        `koanf:"environment"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	JWTSecret                 string        `koanf:"jwt_secret"`
}

// New loads the config in three layers: defaults, then an optional YAML file
// (path taken from CONFIG_FILE), then SHELFMARK_-prefixed environment
// variables. Later layers win.
func New() (*Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests: in-memory database, short
// timeouts, and an ephemeral port.
func NewForTest() *Config {
	cfg := defaultConfig()
	cfg.Environment = "test"
	cfg.ServerPort = 0
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 10 * time.Millisecond
	cfg.JWTSecret = "test-jwt-secret"
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Environment:               "development",
		ServerHost:                "127.0.0.1",
		ServerPort:                8000,
		DatabaseFilePath:          "./tmp/data.sqlite",
		DatabaseMaxRetries:        3,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		JWTSecret:                 "insecure-development-secret",
	}
}
