package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultAppEnv    = "dev"
	defaultDBPath    = "./dev.db"
	defaultPort      = "8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
	defaultCompanyID = "default"
)

// Config holds server configuration sourced from environment variables.
type Config struct {
	AppEnv           string
	DBPath           string
	Port             string
	LogLevel         string
	LogFormat        string
	DefaultCompanyID string
	SeedDefaultRule  bool
}

// IsDev reports whether the server runs in development mode, where migrations run on start-up.
func (c Config) IsDev() bool {
	return c.AppEnv == "" || c.AppEnv == "dev" || c.AppEnv == "development"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: reading .env: %v", err)
	}

	cfg := Config{
		AppEnv:           getenv("APP_ENV", defaultAppEnv),
		DBPath:           getenv("DB_PATH", defaultDBPath),
		Port:             getenv("PORT", defaultPort),
		LogLevel:         getenv("LOG_LEVEL", defaultLogLevel),
		LogFormat:        getenv("LOG_FORMAT", defaultLogFormat),
		DefaultCompanyID: getenv("DEFAULT_COMPANY_ID", defaultCompanyID),
		SeedDefaultRule:  boolenv("SEED_DEFAULT_RULE", true),
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolenv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warning: %s=%q is not a boolean, using %v", key, v, def)
		return def
	}
	return b
}
