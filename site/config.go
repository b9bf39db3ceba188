package site

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/krokify/krokify/lib/kroki"
)

// Namespace is the configuration key the embedder reads.
const Namespace = "kroki"

// DefaultConcurrency bounds how many documents are processed at once
// when the host does not configure a limit.
const DefaultConcurrency = 8

// params mirrors the kroki namespace of the host configuration.
// Pointers distinguish an absent key from a zero value.
type params struct {
	URL               string `mapstructure:"url"`
	HTTPRetries       *int   `mapstructure:"http_retries"`
	HTTPTimeout       *int   `mapstructure:"http_timeout"`
	MaxConcurrentDocs *int   `mapstructure:"max_concurrent_docs"`
}

// Config is the resolved connection configuration for one run.
type Config struct {
	kroki.Config
	Concurrency int
}

// ResolveConfig reads the kroki namespace from s, applying documented
// defaults for every missing key. An unparsable namespace or an invalid
// base URL is a fatal configuration error; nothing is processed when it
// fails.
func ResolveConfig(s Site) (Config, error) {
	var p params
	if raw, ok := s.Params(Namespace); ok {
		if err := mapstructure.Decode(raw, &p); err != nil {
			return Config{}, fmt.Errorf("invalid %s configuration: %w", Namespace, err)
		}
	}

	cfg := Config{
		Config: kroki.Config{
			BaseURL: kroki.DefaultBaseURL,
			Retries: kroki.DefaultRetries,
			Timeout: kroki.DefaultTimeout,
		},
		Concurrency: DefaultConcurrency,
	}
	if p.URL != "" {
		cfg.BaseURL = p.URL
	}
	if p.HTTPRetries != nil {
		cfg.Retries = *p.HTTPRetries
	}
	if p.HTTPTimeout != nil {
		cfg.Timeout = time.Duration(*p.HTTPTimeout) * time.Second
	}
	if p.MaxConcurrentDocs != nil {
		cfg.Concurrency = *p.MaxConcurrentDocs
	}

	if _, err := kroki.ParseBaseURL(cfg.BaseURL); err != nil {
		return Config{}, err
	}
	if cfg.Retries < 0 {
		return Config{}, &kroki.ConfigError{Key: "http_retries", Value: fmt.Sprint(cfg.Retries), Reason: "must be non-negative"}
	}
	if cfg.Timeout <= 0 {
		return Config{}, &kroki.ConfigError{Key: "http_timeout", Value: fmt.Sprint(cfg.Timeout), Reason: "must be positive"}
	}
	if cfg.Concurrency <= 0 {
		return Config{}, &kroki.ConfigError{Key: "max_concurrent_docs", Value: fmt.Sprint(cfg.Concurrency), Reason: "must be positive"}
	}
	return cfg, nil
}
