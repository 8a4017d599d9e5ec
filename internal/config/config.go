package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// CatalogConfig points the species lookup at a catalog service.
type CatalogConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds all runtime configuration.
// Values are populated from .plantr.yaml, PLANTR_* env vars, and CLI flags.
type Config struct {
	DBPath   string        `mapstructure:"db_path"`
	Locale   string        `mapstructure:"locale"`
	LogLevel string        `mapstructure:"log_level"`
	WatchDB  bool          `mapstructure:"watch_db"`
	Catalog  CatalogConfig `mapstructure:"catalog"`
	Server   ServerConfig  `mapstructure:"server"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. An empty DBPath
// means the default location.
func Load() (Config, error) {
	viper.SetDefault("db_path", "")
	viper.SetDefault("locale", "en")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("watch_db", true)
	viper.SetDefault("catalog.base_url", "https://perenual.com/api/v2")
	viper.SetDefault("catalog.api_key", "")
	viper.SetDefault("catalog.timeout", "10s")
	viper.SetDefault("server.addr", "127.0.0.1:8736")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Catalog.Timeout <= 0 {
		return Config{}, fmt.Errorf("catalog.timeout must be positive, got %s", cfg.Catalog.Timeout)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Language parses Locale, falling back to English.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// BindEnv maps PLANTR_* variables onto config keys, including nested ones
// such as PLANTR_CATALOG_API_KEY.
func BindEnv() {
	viper.SetEnvPrefix("PLANTR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}
