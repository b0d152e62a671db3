// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Admin       AdminConfig
	Telegram    TelegramConfig
	Email       EmailConfig
	AWS         AWSConfig
	Payment     PaymentConfig
	Loyalty     LoyaltyConfig
	I18n        I18nConfig
	Shop        ShopConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	AllowedOrigins []string
	RateLimit      bool
}

// StorageConfig selects the repository backend: memory, file or postgres.
type StorageConfig struct {
	Driver      string
	DataDir     string
	SeedCatalog bool
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
	AdminTokenTTL   int // in hours
}

// AdminConfig holds the shared admin passcode. A value starting with "$2" is
// treated as a bcrypt hash.
type AdminConfig struct {
	Passcode string
}

type TelegramConfig struct {
	BotToken       string
	ChatIDs        []string
	APIBaseURL     string
	RequestTimeout int // in seconds
	QueueSize      int
	Workers        int
	MaxRetries     int
	RetryBackoffMS int
	// PublicBaseURL turns relative product image paths into links the Bot
	// API can fetch.
	PublicBaseURL  string
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && len(t.ChatIDs) > 0
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	AdminEmail   string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type PaymentConfig struct {
	StripeSecretKey      string
	StripePublishableKey string
	Currency             string
}

type LoyaltyConfig struct {
	UZSPerPoint int64
}

type I18nConfig struct {
	DefaultLocale string
}

type ShopConfig struct {
	Name        string
	Phone       string
	PaymentCard string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Host:           getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:   getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimit:      getEnvAsBool("RATE_LIMIT_ENABLED", true),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "file"),
			DataDir:     getEnv("STORAGE_DATA_DIR", "./data"),
			SeedCatalog: getEnvAsBool("STORAGE_SEED_CATALOG", true),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "fortex"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		JWT: JWTConfig{
			SecretKey:       getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL:  getEnvAsInt("JWT_ACCESS_TTL", 24),   // 24 hours
			RefreshTokenTTL: getEnvAsInt("JWT_REFRESH_TTL", 720), // 30 days
			AdminTokenTTL:   getEnvAsInt("JWT_ADMIN_TTL", 8),
		},
		Admin: AdminConfig{
			Passcode: getEnv("ADMIN_PASSCODE", ""),
		},
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatIDs:        getEnvAsList("TELEGRAM_CHAT_IDS", nil),
			APIBaseURL:     getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			RequestTimeout: getEnvAsInt("TELEGRAM_TIMEOUT", 10),
			QueueSize:      getEnvAsInt("TELEGRAM_QUEUE_SIZE", 256),
			Workers:        getEnvAsInt("TELEGRAM_WORKERS", 2),
			MaxRetries:     getEnvAsInt("TELEGRAM_MAX_RETRIES", 4),
			RetryBackoffMS: getEnvAsInt("TELEGRAM_RETRY_BACKOFF_MS", 500),
			PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@fortex.uz"),
			FromName:     getEnv("FROM_NAME", "Fortex"),
			AdminEmail:   getEnv("ADMIN_EMAIL", "info@fortex.uz"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "fortex-products"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Payment: PaymentConfig{
			StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			Currency:             getEnv("PAYMENT_CURRENCY", "uzs"),
		},
		Loyalty: LoyaltyConfig{
			UZSPerPoint: int64(getEnvAsInt("LOYALTY_UZS_PER_POINT", 10000)),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "uz"),
		},
		Shop: ShopConfig{
			Name:        getEnv("SHOP_NAME", "Fortex"),
			Phone:       getEnv("SHOP_PHONE", ""),
			PaymentCard: getEnv("SHOP_PAYMENT_CARD", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "file", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Environment != "production" {
		return nil
	}

	if c.JWT.SecretKey == defaultJWTSecret {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Storage.Driver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Admin.Passcode == "" {
		return fmt.Errorf("admin passcode is required in production")
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

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	var items []string
	for _, part := range strings.Split(value, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
