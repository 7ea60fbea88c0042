package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Business BusinessConfig
	Checkout CheckoutConfig
	Upload   UploadConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string // development, production
	Port string
}

// DatabaseConfig holds the Postgres connection settings.
// URL wins over the discrete fields when set.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// BusinessConfig centralizes the business constants that were scattered
// as magic numbers across the old register screens: the VAT rate applied
// at checkout, the cost-of-goods fallback used when a product has no
// recorded purchase price, and the default reorder threshold.
type BusinessConfig struct {
	TaxRate          decimal.Decimal
	COGSFallbackRate decimal.Decimal
	DefaultMinStock  int
}

// CheckoutConfig holds cart session and QRIS payment settings
type CheckoutConfig struct {
	SessionTTL      time.Duration // idle carts are swept after this
	JanitorInterval time.Duration
	QRISExpiry      time.Duration // pending QRIS transactions expire after this
	ExpiryInterval  time.Duration
	QRISBaseURL     string // rendered into the scannable payment URL
	GatewaySecret   string // shared secret for the payment callback
}

// UploadConfig holds product image upload settings
type UploadConfig struct {
	Dir string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file, if present, is loaded by the caller before this runs.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "Gadget Prima POS")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "gadget_prima_pos")
	v.SetDefault("DB_TIMEZONE", "Asia/Jakarta")

	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_ISSUER", "gadget-prima-pos")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("TAX_RATE", "0.11")
	v.SetDefault("COGS_FALLBACK_RATE", "0.60")
	v.SetDefault("DEFAULT_MIN_STOCK", 5)

	v.SetDefault("CHECKOUT_SESSION_TTL", "30m")
	v.SetDefault("CHECKOUT_JANITOR_INTERVAL", "5m")
	v.SetDefault("QRIS_EXPIRY", "15m")
	v.SetDefault("QRIS_EXPIRY_INTERVAL", "30s")
	v.SetDefault("QRIS_BASE_URL", "https://pay.example.id/qris")
	v.SetDefault("QRIS_GATEWAY_SECRET", "")

	v.SetDefault("UPLOAD_DIR", "./uploads")

	taxRate, err := decimal.NewFromString(v.GetString("TAX_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	cogsRate, err := decimal.NewFromString(v.GetString("COGS_FALLBACK_RATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid COGS_FALLBACK_RATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("PORT"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			TimeZone: v.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("JWT_SECRET"),
			Issuer:          v.GetString("JWT_ISSUER"),
			ExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Business: BusinessConfig{
			TaxRate:          taxRate,
			COGSFallbackRate: cogsRate,
			DefaultMinStock:  v.GetInt("DEFAULT_MIN_STOCK"),
		},
		Checkout: CheckoutConfig{
			SessionTTL:      v.GetDuration("CHECKOUT_SESSION_TTL"),
			JanitorInterval: v.GetDuration("CHECKOUT_JANITOR_INTERVAL"),
			QRISExpiry:      v.GetDuration("QRIS_EXPIRY"),
			ExpiryInterval:  v.GetDuration("QRIS_EXPIRY_INTERVAL"),
			QRISBaseURL:     v.GetString("QRIS_BASE_URL"),
			GatewaySecret:   v.GetString("QRIS_GATEWAY_SECRET"),
		},
		Upload: UploadConfig{
			Dir: v.GetString("UPLOAD_DIR"),
		},
	}

	return cfg, nil
}

// DSN builds the Postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}
