package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Affiliate-Hub application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Stream    StreamConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled     bool
	RPS         float64
	Burst       int
	StreamRPS   float64
	StreamBurst int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// StreamConfig configures the live event stream for demo tenants.
type StreamConfig struct {
	Interval time.Duration
	Seed     int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("AFFILIATE_HUB_HTTP_ADDR", ":8080"),
			Env:             getEnv("AFFILIATE_HUB_ENV", "development"),
			ShutdownTimeout: getDurationEnv("AFFILIATE_HUB_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv("AFFILIATE_HUB_DB_ENABLED", false),
			Host:     getEnv("AFFILIATE_HUB_DB_HOST", "localhost"),
			Port:     getIntEnv("AFFILIATE_HUB_DB_PORT", 5432),
			User:     getEnv("AFFILIATE_HUB_DB_USER", "affiliatehub"),
			Password: getEnv("AFFILIATE_HUB_DB_PASSWORD", "affiliatehub_secret"),
			DBName:   getEnv("AFFILIATE_HUB_DB_NAME", "affiliatehub"),
			SSLMode:  getEnv("AFFILIATE_HUB_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("AFFILIATE_HUB_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("AFFILIATE_HUB_DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("AFFILIATE_HUB_REDIS_ENABLED", false),
			Addr:     getEnv("AFFILIATE_HUB_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("AFFILIATE_HUB_REDIS_PASSWORD", ""),
			DB:       getIntEnv("AFFILIATE_HUB_REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("AFFILIATE_HUB_AUTH_ENABLED", true),
			JWTSecret: getEnv("AFFILIATE_HUB_JWT_SECRET", ""),
			SkipPaths: getSliceEnv("AFFILIATE_HUB_AUTH_SKIP_PATHS", []string{"/health", "/metrics", "/api/affiliate/ws/"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getBoolEnv("AFFILIATE_HUB_RATE_LIMIT_ENABLED", true),
			RPS:         getFloatEnv("AFFILIATE_HUB_RATE_LIMIT_RPS", 100),
			Burst:       getIntEnv("AFFILIATE_HUB_RATE_LIMIT_BURST", 20),
			StreamRPS:   getFloatEnv("AFFILIATE_HUB_RATE_LIMIT_STREAM_RPS", 10),
			StreamBurst: getIntEnv("AFFILIATE_HUB_RATE_LIMIT_STREAM_BURST", 5),
		},
		Log: LogConfig{
			Level:  getEnv("AFFILIATE_HUB_LOG_LEVEL", "info"),
			Format: getEnv("AFFILIATE_HUB_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("AFFILIATE_HUB_METRICS_ENABLED", true),
			Path:    getEnv("AFFILIATE_HUB_METRICS_PATH", "/metrics"),
		},
		Stream: StreamConfig{
			Interval: getDurationEnv("AFFILIATE_HUB_STREAM_INTERVAL", 10*time.Second),
			Seed:     getInt64Env("AFFILIATE_HUB_STREAM_SEED", time.Now().UnixNano()),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("AFFILIATE_HUB_JWT_SECRET is required when auth is enabled")
	}
	if c.Stream.Interval < time.Second {
		return fmt.Errorf("AFFILIATE_HUB_STREAM_INTERVAL must be at least 1s")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getInt64Env(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
