package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from a .env file (when present in the
// working directory) and the process environment. A missing .env file is not
// an error; explicitly exported variables still apply.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("STOREFRONT_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STOREFRONT_SERVICE_EMAIL"); v != "" {
		cfg.ServiceEmail = v
	}
	if v := os.Getenv("STOREFRONT_SERVICE_PASSWORD"); v != "" {
		cfg.ServicePassword = v
	}
	if v := os.Getenv("STOREFRONT_DB"); v != "" {
		cfg.DatabaseDSN = v
	}
}
