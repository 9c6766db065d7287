// Package config loads the storefront client settings.
//
// Sources, later ones winning: built-in defaults, an optional YAML file
// (--config flag or $STOREFRONT_CONFIG, otherwise <user config dir>/storefront/config.yaml
// when it exists) and STOREFRONT_* environment variables, e.g.
// STOREFRONT_API_BASE_URL=http://shop.local:4000.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Events  EventsConfig  `mapstructure:"events"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// StorageConfig selects where session and cart are persisted.
// Driver is one of sqlite, postgres or memory.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// EventsConfig configures activity event publishing. An empty URL disables it.
type EventsConfig struct {
	RabbitMQURL string `mapstructure:"rabbitmq_url"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Defaults are applied before any file or environment value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:4000")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("api.user_agent", "storefront-cli")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", filepath.Join(configDir(), "storage.db"))
	v.SetDefault("events.rabbitmq_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration. path overrides the config file location; pass ""
// to use $STOREFRONT_CONFIG or the default location.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("STOREFRONT_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must not be empty")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url %q must start with http:// or https://", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout)
	}
	switch c.Storage.Driver {
	case "sqlite", "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver)
	}
	return nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "storefront")
}
