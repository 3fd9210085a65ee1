package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Config carries everything handlers need: parsed environment values
// plus the shared Mongo client, injected after database.Connect.
type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    []byte
	JWTExpires   time.Duration
	ClientOrigin string
	UploadsDir   string

	PayPalMode         string
	PayPalClientID     string
	PayPalClientSecret string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	MongoClient *mongo.Client
}

// Load reads configuration from the environment. Required values that
// are missing or malformed return an error so main can exit early.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "5000"),
		MongoURI:     os.Getenv("MONGO_URI"),
		DBName:       getEnv("DB_NAME", "demodonation"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:8080"),
		UploadsDir:   getEnv("UPLOADS_DIR", "uploads"),

		PayPalMode:         getEnv("PAYPAL_MODE", "sandbox"),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	cfg.JWTSecret = []byte(secret)

	expires, err := parseExpiry(getEnv("JWT_EXPIRES_IN", "7d"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	cfg.JWTExpires = expires

	if cfg.PayPalMode != "sandbox" && cfg.PayPalMode != "live" {
		return nil, fmt.Errorf("PAYPAL_MODE must be sandbox or live, got %q", cfg.PayPalMode)
	}

	return cfg, nil
}

// PayPalConfigured reports whether checkout credentials are present.
func (c *Config) PayPalConfigured() bool {
	return c.PayPalClientID != "" && c.PayPalClientSecret != ""
}

// CloudinaryConfigured reports whether remote media storage is enabled.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// parseExpiry accepts Go durations plus the day shorthand ("7d") the
// deployment envs already use.
func parseExpiry(s string) (time.Duration, error) {
	if n := len(s); n > 1 && s[n-1] == 'd' {
		days, err := strconv.Atoi(s[:n-1])
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("bad day count %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
