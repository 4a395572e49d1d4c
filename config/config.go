package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings resolved from the environment.
type Config struct {
	Port           string
	AllowedOrigins []string

	// SessionTTL is how long an ended session is kept before the sweeper
	// evicts it. SweepInterval is how often the sweeper runs.
	SessionTTL    time.Duration
	SweepInterval time.Duration

	// Per-connection websocket action rate limit.
	WSRateLimit float64 // actions per second
	WSRateBurst int
}

// Load reads .env (if present) and resolves the configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "4000"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		SweepInterval:  getDuration("SWEEP_INTERVAL", time.Hour),
		WSRateLimit:    getFloat("WS_RATE_LIMIT", 0.5),
		WSRateBurst:    getInt("WS_RATE_BURST", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("[FATAL] invalid %s: %v", key, err)
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("[FATAL] invalid %s: %v", key, err)
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("[FATAL] invalid %s: %v", key, err)
	}
	return f
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
