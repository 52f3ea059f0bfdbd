package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSessionSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Session
	SessionSecret string
	SessionMaxAge time.Duration

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Category read cache. Zero disables caching.
	CacheTTL time.Duration

	// Signin and signup rate limiting per client IP
	AuthRateLimit int
	AuthRateBurst int

	// Proxies allowed to set X-Forwarded-For. Empty means the socket
	// address is the client address.
	TrustedProxies []*net.IPNet
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:           getEnv("ENV", "development"),
	}

	var err error
	if cfg.SessionMaxAge, err = getDuration("SESSION_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit, err = getInt("AUTH_RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.AuthRateBurst, err = getInt("AUTH_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.MigrateOnStart, err = getBool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = getCIDRs("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.IsProduction() && len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minSessionSecretLength)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return b, nil
}

// getCIDRs parses a comma-separated list of CIDR ranges. A bare IP is
// taken as a single-host range.
func getCIDRs(key string) ([]*net.IPNet, error) {
	var result []*net.IPNet
	for _, value := range splitList(os.Getenv(key)) {
		if !strings.Contains(value, "/") {
			ip := net.ParseIP(value)
			if ip == nil {
				return nil, fmt.Errorf("%s: invalid address %q", key, value)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			value = fmt.Sprintf("%s/%d", value, bits)
		}
		_, ipNet, err := net.ParseCIDR(value)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid CIDR %q: %w", key, value, err)
		}
		result = append(result, ipNet)
	}
	return result, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
