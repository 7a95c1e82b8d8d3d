package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/scentora/storefront/internal/flagx"
	"github.com/scentora/storefront/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the token TTL either as a string like
// "24h" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL      string         `json:"api_base_url"`
	ServiceEmail    string         `json:"service_email"`
	ServicePassword string         `json:"service_password"`
	DatabaseDSN     string         `json:"database_dsn"`
	TokenTTL        timex.Duration `json:"token_ttl"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when no path is given, nothing is
// loaded. Read or unmarshal errors panic (caller may recover).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.ServiceEmail != "" {
		cfg.ServiceEmail = jc.ServiceEmail
	}
	if jc.ServicePassword != "" {
		cfg.ServicePassword = jc.ServicePassword
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.TokenTTL.Duration != 0 {
		cfg.TokenTTL = time.Duration(jc.TokenTTL.Duration)
	}
}
