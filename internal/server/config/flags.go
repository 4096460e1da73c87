package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/carescan/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-m string   environment: production | development
//	-s string   session HMAC secret
//	-t int      session validity, hours
//	-k string   Gemini API key
//	-g string   Gemini model name
//	-i int      inference timeout, seconds
//
// Only the flags above are parsed (see flagx.FilterArgs), so -c/-config and
// flags of other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-s", "-t", "-k", "-g", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Environment, "m", config.Environment, "environment (production|development)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session secret key")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session validity (in hours)")
	fs.StringVar(&config.GeminiAPIKey, "k", config.GeminiAPIKey, "Gemini API key")
	fs.StringVar(&config.GeminiModel, "g", config.GeminiModel, "Gemini model")
	inferenceTimeout := fs.Int("i", int(config.InferenceTimeout.Seconds()), "inference timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicit flags replace durations; the defaults above are rounded.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
		case "i":
			config.InferenceTimeout = time.Duration(*inferenceTimeout) * time.Second
		}
	})
}
