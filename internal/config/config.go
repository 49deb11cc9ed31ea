package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	RateLimit      int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"` // comma separated

	// LegacyOpenRoutes mounts menu update, cart and payment routes without guards.
	LegacyOpenRoutes bool `mapstructure:"LEGACY_OPEN_ROUTES"`

	// MongoDB
	MongoURI string `mapstructure:"MONGO_URI"`
	DBUser   string `mapstructure:"DB_USER"`
	DBPass   string `mapstructure:"DB_PASS"`
	DBHost   string `mapstructure:"DB_HOST"`
	DBName   string `mapstructure:"DB_NAME"`

	// Redis (optional: empty disables the menu cache and the receipt workers)
	RedisURL     string        `mapstructure:"REDIS_URL"`
	MenuCacheTTL time.Duration `mapstructure:"MENU_CACHE_TTL"`

	// Auth
	AccessTokenSecret  string `mapstructure:"ACCESS_TOKEN_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// Stripe
	PaymentSecretKey string `mapstructure:"PAYMENT_SECRET_KEY"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Receipts
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 5000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WORKER_POOL_SIZE", 3)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 600)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,https://bistro-boss-d5479.web.app,https://bistro-boss-d5479.firebaseapp.com")
	v.SetDefault("LEGACY_OPEN_ROUTES", false)
	v.SetDefault("DB_HOST", "cluster0.zg5lt79.mongodb.net")
	v.SetDefault("DB_NAME", "distroDB")
	v.SetDefault("MENU_CACHE_TTL", 10*time.Minute)
	v.SetDefault("JWT_EXPIRATION_HOURS", 1)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RECEIPT_STORAGE_PATH", "/tmp/bistro/receipts")

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"MONGO_URI", "DB_USER", "DB_PASS", "REDIS_URL", "ACCESS_TOKEN_SECRET",
		"PAYMENT_SECRET_KEY", "SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD"} {
		_ = v.BindEnv(key)
	}

	// Optional .env file for local development; a missing file is not an error
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing settings the server cannot start without.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("config: ACCESS_TOKEN_SECRET is required")
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_HOURS must be positive, got %d", c.JWTExpirationHours)
	}
	if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
		return errors.New("config: MONGO_URI or DB_USER/DB_PASS is required")
	}
	return nil
}

// MongoConnectionURI returns MONGO_URI when set, otherwise the Atlas SRV URI
// built from DB_USER, DB_PASS and DB_HOST.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?appName=Cluster0",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.DBHost)
}

// AllowedOrigins splits CORS_ORIGINS into a clean list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}
