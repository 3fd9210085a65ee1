package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "demodonation", cfg.DBName)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, "sandbox", cfg.PayPalMode)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpires)
	assert.False(t, cfg.PayPalConfigured())
	assert.False(t, cfg.CloudinaryConfigured())
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	_, err := Load()
	assert.ErrorContains(t, err, "MONGO_URI")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsBadPayPalMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYPAL_MODE", "test")

	_, err := Load()
	assert.ErrorContains(t, err, "PAYPAL_MODE")
}

func TestParseExpiry(t *testing.T) {
	d, err := parseExpiry("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = parseExpiry("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = parseExpiry("0d")
	assert.Error(t, err)

	_, err = parseExpiry("soon")
	assert.Error(t, err)
}

func TestPayPalConfigured(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYPAL_CLIENT_ID", "id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.PayPalConfigured())
}
