package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.True(t, cfg.DecrementStock)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("CORS_ORIGINS", "https://a.example , https://b.example,")
	t.Setenv("DECREMENT_STOCK", "false")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.DecrementStock)
	assert.Equal(t, 5, cfg.RateLimitMax)
}

func TestLoadIgnoresJunk(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "lots")
	t.Setenv("DECREMENT_STOCK", "yes please")

	cfg := Load()
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.True(t, cfg.DecrementStock)
}
