package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Auth       AuthConfig
	Ingest     IngestConfig
	Digest     DigestConfig
	Scheduler  SchedulerConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // complete connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	Timezone       string
}

// AuthConfig holds JWT and password hashing settings
type AuthConfig struct {
	JWTSecret          string
	AccessTokenTTLMin  int
	RefreshTokenTTLDay int
	BcryptCost         int
}

// IngestConfig bounds the message ingestion endpoint
type IngestConfig struct {
	MaxMessageLength int
	DefaultSource    string
}

// DigestConfig holds SMTP settings for the daily digest email
type DigestConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromAddress  string
	DefaultEmail string
	Enabled      bool
}

// SchedulerConfig holds cron schedules for the background jobs
type SchedulerConfig struct {
	DigestSpec    string
	CleanupSpec   string
	ReminderSpec  string
	HealthSpec    string
	RetentionDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "makemyday"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 3001),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			Timezone:       getEnv("APP_TIMEZONE", "Asia/Jerusalem"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
			AccessTokenTTLMin:  getEnvAsInt("JWT_ACCESS_TTL_MINUTES", 7*24*60),
			RefreshTokenTTLDay: getEnvAsInt("JWT_REFRESH_TTL_DAYS", 30),
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 10),
		},
		Ingest: IngestConfig{
			MaxMessageLength: getEnvAsInt("INGEST_MAX_MESSAGE_LENGTH", 1000),
			DefaultSource:    getEnv("INGEST_DEFAULT_SOURCE", "whatsapp"),
		},
		Digest: DigestConfig{
			SMTPHost:     getEnv("SMTP_HOST", "localhost"),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:     getEnv("SMTP_USER", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromAddress:  getEnv("DIGEST_FROM_ADDRESS", "digest@makemyday.local"),
			DefaultEmail: getEnv("DEFAULT_DIGEST_EMAIL", ""),
			Enabled:      getEnv("DEFAULT_DIGEST_EMAIL", "") != "",
		},
		Scheduler: SchedulerConfig{
			DigestSpec:    getEnv("SCHEDULE_DIGEST", "0 7 * * *"),
			CleanupSpec:   getEnv("SCHEDULE_CLEANUP", "0 2 1 * *"),
			ReminderSpec:  getEnv("SCHEDULE_REMINDERS", "0 8,10,12,14,16,18 * * *"),
			HealthSpec:    getEnv("SCHEDULE_HEALTH", "0 * * * *"),
			RetentionDays: getEnvAsInt("ANALYTICS_RETENTION_DAYS", 90),
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
