package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the storefront's settings. The catalog base address is the
// only required value; everything else has a usable default.
type Config struct {
	CatalogURL     string        `mapstructure:"catalog_url"`
	ListenAddr     string        `mapstructure:"listen_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RetryWindow    time.Duration `mapstructure:"retry_window"`
	SuccessDelay   time.Duration `mapstructure:"success_delay"`
}

// Load reads settings from STOREFRONT_* environment variables on top of the
// defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("catalog_url", "")
	v.SetDefault("listen_addr", ":8082")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("retry_window", 10*time.Second)
	v.SetDefault("success_delay", time.Duration(0))

	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.CatalogURL == "" {
		return nil, errors.New("STOREFRONT_CATALOG_URL is required")
	}
	cfg.CatalogURL = strings.TrimRight(cfg.CatalogURL, "/")
	return &cfg, nil
}
