package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Upstream seed feed
	SeedFeedURL     string
	SeedFeedTimeout time.Duration

	// AMQP (optional; empty URL disables reseed events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// HTTP layer tuning
	CORSAllowedOrigins []string
	CacheTTL           time.Duration
	CacheMaxEntries    int
}

// DefaultSeedFeedURL is the third-party product transaction dataset
// the store is seeded from.
const DefaultSeedFeedURL = "https://s3.amazonaws.com/roxiler.com/product_transaction.json"

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/salesboard.db"),

		SeedFeedURL:     getEnv("SEED_FEED_URL", DefaultSeedFeedURL),
		SeedFeedTimeout: getEnvDuration("SEED_FEED_TIMEOUT", 30*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "salesboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_reseeded"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CacheTTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxEntries:    getEnvInt("CACHE_MAX_ENTRIES", 100),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
			}
		}
	}

	if c.SeedFeedURL == "" {
		errs = append(errs, "seed feed URL cannot be empty")
	} else if parsed, err := url.Parse(c.SeedFeedURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid seed feed URL '%s': %v", c.SeedFeedURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid seed feed URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	}

	if c.SeedFeedTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid seed feed timeout %v: must be at least 1 second", c.SeedFeedTimeout))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}
	if c.CacheMaxEntries < 1 {
		errs = append(errs, fmt.Sprintf("invalid cache max entries %d: must be at least 1", c.CacheMaxEntries))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
