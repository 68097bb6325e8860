package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Mail     MailConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	RunMigrations     bool
}

type ServerConfig struct {
	Port        string
	Env         string
	BaseURL     string // external base URL used in emailed links
	LogLevel    string
	CORSOrigins []string
}

type AuthConfig struct {
	SecretKey     string
	TokenExpiry   time.Duration // verify/reset link validity window
	SessionExpiry time.Duration
	AdminEmail    string
	AdminPassword string
}

type MailConfig struct {
	Provider     string // "smtp" or "ses"
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromAddress  string
	OwnerAddress string // contact form recipient
	Timeout      time.Duration
	AWSRegion    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	secretKey := getEnv("SECRET_KEY", "")
	if secretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "inkwell"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			RunMigrations:     getEnvAsBool("RUN_MIGRATIONS", false),
		},
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Env:         getEnv("ENV", "development"),
			BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Auth: AuthConfig{
			SecretKey:     secretKey,
			TokenExpiry:   getEnvAsDuration("TOKEN_EXPIRY", 30*time.Minute),
			SessionExpiry: getEnvAsDuration("SESSION_EXPIRY", 24*time.Hour),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Mail: MailConfig{
			Provider:     getEnv("MAIL_PROVIDER", "smtp"),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
			Username:     getEnv("MAIL_USERNAME", ""),
			Password:     getEnv("MAIL_PASSWORD", ""),
			FromAddress:  getEnv("MAIL_FROM", getEnv("MAIL_USERNAME", "")),
			OwnerAddress: getEnv("MAIL_OWNER", getEnv("MAIL_USERNAME", "")),
			Timeout:      getEnvAsDuration("MAIL_TIMEOUT", 10*time.Second),
			AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	switch cfg.Mail.Provider {
	case "smtp":
		if cfg.Mail.Username == "" || cfg.Mail.Password == "" {
			return nil, fmt.Errorf("MAIL_USERNAME and MAIL_PASSWORD are required for the smtp provider")
		}
	case "ses":
		if cfg.Mail.FromAddress == "" {
			return nil, fmt.Errorf("MAIL_FROM is required for the ses provider")
		}
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER: %s", cfg.Mail.Provider)
	}

	if err := validateSecretKey(secretKey, cfg.Server.Env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecretKey enforces minimum strength for the token signing secret
func validateSecretKey(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
