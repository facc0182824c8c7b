package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	DatabaseURL string

	CORSOrigins []string

	RateLimitWindow time.Duration
	RateLimitMax    int

	// DecrementStock controls whether creating a venta permanently reduces
	// product stock inside the creation transaction. The stock check itself
	// always runs; this only toggles the decrement.
	DecrementStock bool
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		HTTPAddr: get("HTTP_ADDR", ":3001"),

		DatabaseURL: get("DATABASE_URL", ""),

		CORSOrigins: getList("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"),

		RateLimitWindow: time.Duration(getInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		RateLimitMax:    getInt("RATE_LIMIT_MAX_REQUESTS", 100),

		DecrementStock: getBool("DECREMENT_STOCK", true),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getList(k, def string) []string {
	parts := strings.Split(get(k, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
