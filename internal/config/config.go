// Package config loads runtime settings for the storefront client.
//
// Sources are applied in order, later ones winning: built-in defaults,
// a .env file / process environment, an optional JSON file, command-line
// flags.
package config

import "time"

// Config holds runtime settings for the storefront client.
type Config struct {
	// APIBaseURL is the base URL of the backend REST API. The original
	// storefront used two host names interchangeably; this client talks to
	// exactly one, configured here.
	APIBaseURL string

	// ServiceEmail and ServicePassword are the service-level credentials
	// exchanged for the app-wide bearer token. Not end-user credentials.
	ServiceEmail    string
	ServicePassword string

	// DatabaseDSN locates the local sqlite store.
	DatabaseDSN string

	// TokenTTL is the rolling freshness window for both the service token
	// and the user token, measured from issuance.
	TokenTTL time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.DatabaseDSN = "storefront.db"
	c.TokenTTL = 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
