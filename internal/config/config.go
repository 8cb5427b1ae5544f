package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Remote backend kinds
const (
	RemoteBackendSheets   = "sheets"
	RemoteBackendPostgres = "postgres"
	RemoteBackendNone     = "none"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Local fallback state
	DataDir     string
	DatasetFile string
	CounterFile string
	LogFile     string

	// Remote recording backend
	RemoteBackend         string
	RemoteTimeout         time.Duration
	GoogleSheetsID        string
	WorksheetName         string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string
	DatabaseURL           string

	// Remote stats cache
	RedisURL      string
	StatsCacheTTL time.Duration

	// Day bucketing offset from UTC
	TimezoneOffset time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", ".")

	return &Config{
		Port:                  getEnv("PORT", "5000"),
		AllowedOrigins:        parseOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		Environment:           getEnv("ENVIRONMENT", "production"),
		DataDir:               dataDir,
		DatasetFile:           filepath.Join(dataDir, getEnv("DATASET_FILE", "1.csv")),
		CounterFile:           filepath.Join(dataDir, getEnv("COUNTER_FILE", "counter.txt")),
		LogFile:               filepath.Join(dataDir, getEnv("VISIT_LOG_FILE", "visit_log.txt")),
		RemoteBackend:         strings.ToLower(getEnv("REMOTE_BACKEND", RemoteBackendSheets)),
		RemoteTimeout:         getDurationEnv("REMOTE_TIMEOUT", 5*time.Second),
		GoogleSheetsID:        getEnv("GOOGLE_SHEETS_ID", ""),
		WorksheetName:         getEnv("WORKSHEET_NAME", "访问记录"),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		StatsCacheTTL:         getDurationEnv("STATS_CACHE_TTL", 30*time.Second),
		TimezoneOffset:        time.Duration(getIntEnv("TIMEZONE_OFFSET_HOURS", 8)) * time.Hour,
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDurationEnv accepts Go durations ("5s") or plain seconds ("5")
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
