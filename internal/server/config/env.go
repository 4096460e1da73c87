package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the environment. A .env file in the working
// directory is loaded first when present; variables already set in the
// process environment win over it.
//
// Recognised variables:
//
//	CARESCAN_ADDR, DATABASE_DSN, APP_ENV, SESSION_SECRET, SESSION_TTL,
//	GEMINI_API_KEY, GEMINI_MODEL, INFERENCE_TIMEOUT
//
// Durations use Go syntax ("720h", "45s"); unparsable values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.EndpointAddrHTTP, "CARESCAN_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.Environment, "APP_ENV")
	setString(&config.SecretKey, "SESSION_SECRET")
	setDuration(&config.SessionTTL, "SESSION_TTL")
	setString(&config.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&config.GeminiModel, "GEMINI_MODEL")
	setDuration(&config.InferenceTimeout, "INFERENCE_TIMEOUT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
