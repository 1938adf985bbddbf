package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Client
	APIBase string
	// Server
	Port          string
	AllowedOrigin string
	CatalogFile   string
	// Database (optional; in-memory store when empty)
	DatabaseURL string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		APIBase:       getEnvDefault("CINECHAT_API_BASE", "http://localhost:8000"),
		Port:          getEnvDefault("PORT", "8000"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		CatalogFile:   getEnvDefault("CATALOG_FILE", "data/catalog.yaml"),
		DatabaseURL:   os.Getenv("DB_URL"),
	}
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
