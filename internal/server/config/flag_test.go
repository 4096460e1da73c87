package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-m", "development", "-s", "secret",
			"-t", "2", "-k", "gkey", "-g", "gemini-pro", "-i", "15",
		}, expected: &Config{
			EndpointAddrHTTP: "127.0.0.1:9090",
			DatabaseDSN:      "db",
			Environment:      "development",
			SecretKey:        "secret",
			SessionTTL:       2 * time.Hour,
			GeminiAPIKey:     "gkey",
			GeminiModel:      "gemini-pro",
			InferenceTimeout: 15 * time.Second,
		}},
		{name: "bad int", args: []string{"cmd", "-t", "forever"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsDurationsWithoutFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-a", ":9000"}

	config := &Config{SessionTTL: 90 * time.Minute, InferenceTimeout: 1500 * time.Millisecond}
	parseFlags(config)

	assert.Equal(t, ":9000", config.EndpointAddrHTTP)
	assert.Equal(t, 90*time.Minute, config.SessionTTL)
	assert.Equal(t, 1500*time.Millisecond, config.InferenceTimeout)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("CARESCAN_ADDR", ":7000")
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("INFERENCE_TIMEOUT", "not-a-duration")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":7000", c.EndpointAddrHTTP)
	assert.Equal(t, EnvDevelopment, c.Environment)
	assert.Equal(t, "from-env", c.SecretKey)
	assert.Equal(t, 48*time.Hour, c.SessionTTL)
	assert.Equal(t, "env-key", c.GeminiAPIKey)
	assert.Equal(t, time.Minute, c.InferenceTimeout, "invalid duration keeps the default")
}
