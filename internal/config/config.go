// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Email       EmailConfig
	Admin       AdminConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
	Reminder    ReminderConfig
}

type FrontendConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  int // in hours
	RefreshTokenTTL int // in hours
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	PresignTTL      int // in minutes
}

type PaymentConfig struct {
	Provider        string // "paystack" or "stripe"
	PaystackSecret  string
	PaystackBaseURL string
	StripeSecretKey string
	DefaultCurrency string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

type AdminConfig struct {
	StaffEmail      string // distribution address for submission alerts
	DefaultEmail    string
	DefaultPassword string
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

type ReminderConfig struct {
	Enabled        bool
	Schedule       string
	StaleAfterDays int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "evisa_portal"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 12),
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 168), // 7 days
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "eu-west-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "evisa-application-documents"),
			PresignTTL:      getEnvAsInt("AWS_PRESIGN_TTL", 15),
		},
		Payment: PaymentConfig{
			Provider:        getEnv("PAYMENT_PROVIDER", "paystack"),
			PaystackSecret:  getEnv("PAYSTACK_SECRET_KEY", ""),
			PaystackBaseURL: getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			DefaultCurrency: getEnv("PAYMENT_CURRENCY", "GHS"),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@evisa.gov.gh"),
			FromName:     getEnv("FROM_NAME", "Immigration E-Visa Portal"),
		},
		Admin: AdminConfig{
			StaffEmail:      getEnv("STAFF_ALERT_EMAIL", "evisa-desk@immigration.gov.gh"),
			DefaultEmail:    getEnv("ADMIN_EMAIL", "admin@immigration.gov.gh"),
			DefaultPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
		Frontend: FrontendConfig{
			BaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
		Reminder: ReminderConfig{
			Enabled:        getEnvAsBool("REMINDER_ENABLED", true),
			Schedule:       getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
			StaleAfterDays: getEnvAsInt("REMINDER_STALE_AFTER_DAYS", 5),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == "your-secret-key-change-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Environment == "production" {
		switch c.Payment.Provider {
		case "paystack":
			if c.Payment.PaystackSecret == "" {
				return fmt.Errorf("paystack secret key is required in production")
			}
		case "stripe":
			if c.Payment.StripeSecretKey == "" {
				return fmt.Errorf("stripe secret key is required in production")
			}
		default:
			return fmt.Errorf("unknown payment provider %q", c.Payment.Provider)
		}
	}

	return nil
}

// Helper functions
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
