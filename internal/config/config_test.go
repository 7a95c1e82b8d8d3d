package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://127.0.0.1:8080", cfg.APIBaseURL)
	require.Equal(t, "storefront.db", cfg.DatabaseDSN)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestParseEnv_Overlays(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://api.example.test")
	t.Setenv("STOREFRONT_SERVICE_EMAIL", "svc@example.test")
	t.Setenv("STOREFRONT_SERVICE_PASSWORD", "secret")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "https://api.example.test", cfg.APIBaseURL)
	require.Equal(t, "svc@example.test", cfg.ServiceEmail)
	require.Equal(t, "secret", cfg.ServicePassword)
	// untouched fields keep defaults
	require.Equal(t, "storefront.db", cfg.DatabaseDSN)
}

func TestJsonConfig_Unmarshal(t *testing.T) {
	data := []byte(`{
		"api_base_url": "https://api.example.test",
		"service_email": "svc@example.test",
		"database_dsn": "x.db",
		"token_ttl": "12h"
	}`)

	var jc JsonConfig
	require.NoError(t, json.Unmarshal(data, &jc))
	require.Equal(t, "https://api.example.test", jc.APIBaseURL)
	require.Equal(t, "x.db", jc.DatabaseDSN)
	require.Equal(t, 12*time.Hour, jc.TokenTTL.Duration)
}

func TestParseJson_NoFileGivenIsNoop(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg) // no -c flag in test args

	require.Equal(t, "http://127.0.0.1:8080", cfg.APIBaseURL)
}

func TestParseJson_OverlaysFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"https://cfg.example.test","token_ttl":"6h"}`), 0o600))

	origArgs := os.Args
	os.Args = []string{"storefront", "-c", path}
	t.Cleanup(func() { os.Args = origArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "https://cfg.example.test", cfg.APIBaseURL)
	require.Equal(t, 6*time.Hour, cfg.TokenTTL)
	require.Equal(t, "storefront.db", cfg.DatabaseDSN)
}
