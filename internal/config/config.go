package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Payment PaymentConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// PaymentConfig holds Stripe checkout settings.
type PaymentConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	Currency      string `mapstructure:"currency"`
	FrontendURL   string `mapstructure:"frontend_url"`
}

// Enabled reports whether the payment provider credentials are configured.
func (p *PaymentConfig) Enabled() bool {
	return p.SecretKey != "" && p.WebhookSecret != ""
}

// Load reads configuration from environment variables with the INVOPAY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invopay")
	v.SetDefault("db.password", "invopay_secret")
	v.SetDefault("db.name", "invopay_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5000,http://127.0.0.1:5000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@invopay.app")
	v.SetDefault("email.frontend_url", "http://localhost:5000")

	// Payment defaults
	v.SetDefault("payment.secret_key", "")
	v.SetDefault("payment.webhook_secret", "")
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("payment.frontend_url", "http://localhost:5000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":            "INVOPAY_SERVER_PORT",
		"server.read_timeout":    "INVOPAY_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "INVOPAY_SERVER_WRITE_TIMEOUT",
		"server.environment":     "INVOPAY_SERVER_ENVIRONMENT",
		"db.host":                "INVOPAY_DB_HOST",
		"db.port":                "INVOPAY_DB_PORT",
		"db.user":                "INVOPAY_DB_USER",
		"db.password":            "INVOPAY_DB_PASSWORD",
		"db.name":                "INVOPAY_DB_NAME",
		"db.sslmode":             "INVOPAY_DB_SSLMODE",
		"db.max_open":            "INVOPAY_DB_MAX_OPEN",
		"db.max_idle":            "INVOPAY_DB_MAX_IDLE",
		"log.level":              "INVOPAY_LOG_LEVEL",
		"log.format":             "INVOPAY_LOG_FORMAT",
		"cors.allowed_origins":   "INVOPAY_CORS_ALLOWED_ORIGINS",
		"email.provider":         "INVOPAY_EMAIL_PROVIDER",
		"email.region":           "INVOPAY_EMAIL_REGION",
		"email.from_address":     "INVOPAY_EMAIL_FROM_ADDRESS",
		"email.frontend_url":     "INVOPAY_EMAIL_FRONTEND_URL",
		"payment.secret_key":     "INVOPAY_PAYMENT_SECRET_KEY",
		"payment.webhook_secret": "INVOPAY_PAYMENT_WEBHOOK_SECRET",
		"payment.currency":       "INVOPAY_PAYMENT_CURRENCY",
		"payment.frontend_url":   "INVOPAY_PAYMENT_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOPAY_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOPAY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Payment = PaymentConfig{
		SecretKey:     v.GetString("payment.secret_key"),
		WebhookSecret: v.GetString("payment.webhook_secret"),
		Currency:      v.GetString("payment.currency"),
		FrontendURL:   v.GetString("payment.frontend_url"),
	}

	return cfg, nil
}
