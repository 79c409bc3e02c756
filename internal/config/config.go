package config

import (
	"log"
	"os"
)

const (
	defaultEnv      = "dev"
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultLogLevel = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	LogLevel      string
	LogFile       string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: local dev variables come from .env; production uses
	// real env injection. A missing file is not an error.
	_ = loadDotEnv(".env")

	cfg := Config{
		Env:           getenv("APP_ENV", defaultEnv),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        getenv("DB_PATH", defaultDBPath),
		Port:          getenv("PORT", defaultPort),
		LogLevel:      getenv("LOG_LEVEL", defaultLogLevel),
		LogFile:       os.Getenv("LOG_FILE"),
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

// IsDev reports whether the app runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
