// Package config loads and validates the client configuration from
// defaults and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before they are mapped
// onto configuration keys, e.g. OKTA_CLIENT_ORGURL -> client.orgurl.
const envPrefix = "OKTA_"

// Load loads configuration from two sources with priority:
// 1. Environment variables (highest priority)
// 2. Default values
func Load() (*ClientConfig, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// Convert OKTA_UPPER_CASE to lower.case for koanf
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".")
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg ClientConfig
	if err := k.Unmarshal("client", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConnPool = loadPool(k)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"client.authscheme":        SchemeSSWS,
		"client.connectiontimeout": DefaultConnectionTimeout,
		"client.retrymaxattempts":  DefaultRetryMaxAttempts,
		"client.retrymaxelapsed":   DefaultRetryMaxElapsed,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// loadPool reads the process-wide pool caps. A missing or unparseable value
// yields a nonpositive int from koanf and falls back to the default.
func loadPool(k *koanf.Koanf) PoolConfig {
	pool := PoolConfig{
		MaxPerRoute: k.Int("httpclient.connpool.maxperroute"),
		MaxTotal:    k.Int("httpclient.connpool.maxtotal"),
	}

	if pool.MaxPerRoute <= 0 {
		pool.MaxPerRoute = DefaultMaxConnectionsPerRoute
	}
	if pool.MaxTotal <= 0 {
		pool.MaxTotal = DefaultMaxConnectionsTotal
	}

	return pool
}

// Validate checks a ClientConfig built by Load or by hand. Zero-valued pool
// caps are filled with the defaults so hand-built configs stay valid.
func Validate(cfg *ClientConfig) error {
	if cfg.ConnPool.MaxPerRoute <= 0 {
		cfg.ConnPool.MaxPerRoute = DefaultMaxConnectionsPerRoute
	}
	if cfg.ConnPool.MaxTotal <= 0 {
		cfg.ConnPool.MaxTotal = DefaultMaxConnectionsTotal
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	return nil
}
