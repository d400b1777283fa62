package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, resolved once at process start.
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Redis (optional, caching is skipped when empty)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret        string
	SignupTokenHours int
	SigninTokenHours int

	// Mail
	SMTP         SMTPConfig
	ContactInbox string

	// Codeforces
	CodeforcesBaseURL        string
	CodeforcesTimeoutSeconds int
	SubmissionFetchCount     int

	// Sync job
	SyncCronSpec         string
	InactivityWindowDays int

	// Events (optional Kafka transport)
	KafkaBrokers []string
	EventTopic   string
}

// SMTPConfig carries credentials for the reminder/contact mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LoadConfig reads .env (when present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "3000"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "progress_service"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		SignupTokenHours: getEnvAsInt("SIGNUP_TOKEN_HOURS", 24),
		SigninTokenHours: getEnvAsInt("SIGNIN_TOKEN_HOURS", 1),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Codeforces Tracker <noreply@localhost>"),
		},
		ContactInbox: getEnv("CONTACT_INBOX", ""),

		CodeforcesBaseURL:        getEnv("CODEFORCES_BASE_URL", "https://codeforces.com/api"),
		CodeforcesTimeoutSeconds: getEnvAsInt("CODEFORCES_TIMEOUT_SECONDS", 30),
		SubmissionFetchCount:     getEnvAsInt("SUBMISSION_FETCH_COUNT", 10000),

		SyncCronSpec:         getEnv("SYNC_CRON_SPEC", "0 2 * * *"),
		InactivityWindowDays: getEnvAsInt("INACTIVITY_WINDOW_DAYS", 7),

		EventTopic: getEnv("EVENT_TOPIC", "progress-service.events"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
