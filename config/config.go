// Package config reads runtime settings from the environment, loading a .env
// file first when one exists.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreRecords = "records"
	StoreRedis   = "redis"
	StoreMemory  = "memory"

	RendererMaroto = "maroto"
	RendererChrome = "chrome"
)

type Config struct {
	APIURL      string
	APITimeout  time.Duration
	QuoteStore  string
	RedisURL    string
	SessionTTL  time.Duration
	PDFRenderer string
	ChromePath  string
	PDFTimeout  time.Duration
	BOMPageSize int
	CompanyName string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	cfg := &Config{
		APIURL:      strings.TrimRight(getEnv("CHIKA_API_URL", "https://chikaai.net"), "/"),
		APITimeout:  time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		QuoteStore:  strings.ToLower(getEnv("QUOTE_STORE", StoreRecords)),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:  time.Duration(getEnvAsInt("QUOTE_SESSION_TTL", 86400)) * time.Second,
		PDFRenderer: strings.ToLower(getEnv("PDF_RENDERER", RendererMaroto)),
		ChromePath:  getEnv("CHROME_PATH", ""),
		PDFTimeout:  time.Duration(getEnvAsInt("PDF_TIMEOUT_SECONDS", 30)) * time.Second,
		BOMPageSize: getEnvAsInt("BOM_PAGE_SIZE", 10),
		CompanyName: getEnv("COMPANY_NAME", "Chika AI"),
	}

	switch cfg.QuoteStore {
	case StoreRecords, StoreRedis, StoreMemory:
	default:
		cfg.QuoteStore = StoreRecords
	}
	if cfg.PDFRenderer != RendererChrome {
		cfg.PDFRenderer = RendererMaroto
	}
	if cfg.PDFTimeout <= 0 {
		cfg.PDFTimeout = 30 * time.Second
	}
	if cfg.BOMPageSize <= 0 {
		cfg.BOMPageSize = 10
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
