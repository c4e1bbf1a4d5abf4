package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_GO", "90s")
	t.Setenv("TEST_DURATION_SECONDS", "15")
	t.Setenv("TEST_DURATION_BAD", "soon")

	assert.Equal(t, 90*time.Second, getEnvAsTimeDuration("TEST_DURATION_GO", time.Minute))
	assert.Equal(t, 15*time.Second, getEnvAsTimeDuration("TEST_DURATION_SECONDS", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_BAD", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_UNSET", time.Minute))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_ORIGINS", " https://a.example , ,https://b.example")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsSlice("TEST_ORIGINS", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("TEST_ORIGINS_UNSET", []string{"x"}))
}

func TestGetEnvScalars(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_STRING", "")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_INT_BAD", 1))
	assert.False(t, getEnvAsBool("TEST_BOOL", true))
	// set but empty is still set
	assert.Equal(t, "", getEnvAsString("TEST_STRING", "default"))
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ORDER_TRUST_CLIENT_TOTAL", "true")
	t.Setenv("RATE_LIMIT_AUTH", "5")
	t.Setenv("AUTH_ACCESS_TOKEN_EXPIRY", "2h")

	cfg := Load()
	assert.True(t, IsProduction(cfg))
	assert.Equal(t, "info", GetLogLevel(cfg))
	assert.True(t, cfg.Orders.TrustClientTotal)
	assert.Equal(t, 5, cfg.RateLimit.AuthLimit)
	assert.Equal(t, 2*time.Hour, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, "ADMIN", cfg.Auth.AdminRole)
}
