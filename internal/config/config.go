package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the storefront.  DATABASE_URL is
// the only required variable; everything else has a development default.
type Config struct {
	Env         string        // APP_ENV: development, test or production
	Port        string        // APP_PORT: HTTP port to listen on
	DatabaseURL string        // DATABASE_URL: MySQL DSN (user:pass@tcp(host:3306)/db)
	BcryptCost  int           // BCRYPT_COST: bcrypt cost for password hashing
	DBTimeout   time.Duration // DB_TIMEOUT: per-request storage deadline
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool { return strings.EqualFold(c.Env, "production") }

// LoadDotEnv reads a .env file into the process environment when present.
// Variables already set in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
}

// Load reads configuration values from environment variables.  A missing
// DATABASE_URL terminates the process.
func Load() Config {
	return Config{
		Env:         envStr("APP_ENV", "development"),
		Port:        envStr("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		BcryptCost:  envInt("BCRYPT_COST", 10),
		DBTimeout:   envDur("DB_TIMEOUT", 5*time.Second),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
