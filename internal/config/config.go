package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// DefaultUserID scopes requests in single-tenant self-host mode when no
	// identity header is present. Identity itself belongs to the fronting
	// auth collaborator.
	DefaultUserID int64

	DBType        string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	DBMaxIdleConn int
	DBMaxOpenConn int

	GitHubAPIBaseURL string
	GitHubToken      string

	// ReminderScanInterval is the scheduler cadence in minutes.
	ReminderScanInterval int

	LogLevel string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:          getenv("APP_SERVICE", "subsense"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      getenv("ENVIRONMENT", "development"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		DefaultUserID:    getenvInt64("DEFAULT_USER", 1),
		DBType:           getenv("DATABASE_TYPE", "sqlite"),
		DBHost:           getenv("DATABASE_HOST", "localhost"),
		DBPort:           getenv("DATABASE_PORT", "5432"),
		DBName:           getenv("DATABASE_NAME", "subsense"),
		DBUser:           getenv("DATABASE_USER", "subsense"),
		DBPassword:       getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:        getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:    getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:    getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		GitHubAPIBaseURL: getenv("GITHUB_API_BASE_URL", "https://api.github.com"),
		GitHubToken:      getenv("GITHUB_TOKEN", ""),

		ReminderScanInterval: getenvInt("REMINDER_SCAN_INTERVAL", 60),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
