package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int
	AppEnv     string

	// Postgres connection parameters
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Google OAuth client
	GoogleClientID     string
	GoogleClientSecret string
	RedirectURI        string // must end with a trailing slash

	// Groq classification service
	GroqAPIKey string
	GroqModel  string

	SessionTTL    time.Duration
	SessionSweep  string // cron expression for the session sweeper
	SessionSecret string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	dbPortStr := getEnv("DB_PORT", "5432")
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT %q: %w", dbPortStr, err)
	}

	ttlStr := getEnv("SESSION_TTL_MINUTES", "60")
	ttlMinutes, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES %q: %w", ttlStr, err)
	}

	redirectURI := getEnv("REDIRECT_URI", "http://localhost:8080/")
	if !strings.HasSuffix(redirectURI, "/") {
		return nil, fmt.Errorf("REDIRECT_URI must end with a trailing slash, got %q", redirectURI)
	}

	return &Config{
		ServerPort:         port,
		AppEnv:             getEnv("APP_ENV", "development"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             dbPort,
		DBName:             getEnv("DB_NAME", "moviereviews"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURI:        redirectURI,
		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GroqModel:          getEnv("GROQ_MODEL", "llama3-70b-8192"),
		SessionTTL:         time.Duration(ttlMinutes) * time.Minute,
		SessionSweep:       getEnv("SESSION_SWEEP_SCHEDULE", "@every 10m"),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-session-secret"),
	}, nil
}

// DatabaseDSN assembles a Postgres connection string from the individual parts.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode)
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
