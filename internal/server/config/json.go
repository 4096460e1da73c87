package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/carescan/internal/flagx"
	"github.com/dmitrijs2005/carescan/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields accept "720h"-style strings or integer nanoseconds. Absent fields
// leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	DatabaseDSN      string          `json:"database_dsn"`
	Environment      string          `json:"environment"`
	SecretKey        string          `json:"secret_key"`
	SessionTTL       *timex.Duration `json:"session_ttl"`
	GeminiAPIKey     string          `json:"gemini_api_key"`
	GeminiModel      string          `json:"gemini_model"`
	InferenceTimeout *timex.Duration `json:"inference_timeout"`
}

// parseJson loads the file named by -c/-config into config. Nothing happens
// when no file is given; an unreadable or invalid file panics, since the
// server cannot start with a half-applied configuration.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.Environment, c.Environment)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.GeminiAPIKey, c.GeminiAPIKey)
	overlay(&config.GeminiModel, c.GeminiModel)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.InferenceTimeout != nil {
		config.InferenceTimeout = c.InferenceTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
