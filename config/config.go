// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the service reads at startup.
type Config struct {
	Port    string `envconfig:"PORT" default:"8000"`
	BaseURL string `envconfig:"BASE_URL" default:"https://finance.yahoo.com"`

	// Region picks a Yahoo Finance edition from Regions. Explicit
	// BASE_URL and ACCEPT_LANGUAGE settings win over the region.
	Region string `envconfig:"REGION" default:""`

	UserAgent      string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64; rv:134.0) Gecko/20100101 Firefox/134.0"`
	AcceptLanguage string        `envconfig:"ACCEPT_LANGUAGE" default:"en-US,en;q=0.5"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// RedisAddr empty leaves response caching off.
	RedisAddr string        `envconfig:"REDIS_ADDR" default:""`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"12h"`

	// BrowserFallback routes fetches that fail over HTTP through a
	// headless browser. Needs Chrome on the host.
	BrowserFallback bool          `envconfig:"BROWSER_FALLBACK" default:"false"`
	BrowserPoolSize int           `envconfig:"BROWSER_POOL_SIZE" default:"2"`
	BrowserTimeout  time.Duration `envconfig:"BROWSER_TIMEOUT" default:"15s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment, filling defaults for
// anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Region != "" {
		region, ok := Regions[cfg.Region]
		if !ok {
			return Config{}, fmt.Errorf("unknown region %q", cfg.Region)
		}
		if os.Getenv("BASE_URL") == "" {
			cfg.BaseURL = region.Origin
		}
		if os.Getenv("ACCEPT_LANGUAGE") == "" {
			cfg.AcceptLanguage = region.AcceptLanguage
		}
	}
	return cfg, nil
}
