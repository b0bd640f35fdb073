package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the scraper.
type Config struct {
	CatalogURL string
	OutFile    string
	UserAgent  string
	Headless   bool

	// WaitTimeout bounds the two page-boundary waits: listings appearing
	// and the old page going stale after a pagination click.
	WaitTimeout time.Duration

	// PostgreSQL (optional mirror of the CSV output)
	DBEnabled  bool
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// Load returns a Config populated from the environment with sensible
// defaults.
func Load() Config {
	return Config{
		CatalogURL: getEnv("CATALOG_URL", "https://library.happycoding.hk/books/"),
		OutFile:    getEnv("OUT_FILE", "scraped_books.csv"),
		UserAgent: getEnv("USER_AGENT",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) "+
				"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		Headless:    getEnvBool("HEADLESS", true),
		WaitTimeout: time.Duration(getEnvInt("WAIT_TIMEOUT_SECONDS", 10)) * time.Second,

		DBEnabled:  getEnvBool("DB_ENABLED", false),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "library"),
		DBPassword: getEnv("DB_PASSWORD", "library"),
		DBName:     getEnv("DB_NAME", "library_catalog"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
