package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// AppConfig is built once from the environment during startup and passed by
// reference into the router; nothing reads the environment after Load.
type AppConfig struct {
	Port        string
	MetricsPort string
	Environment string

	// AuthServiceURL is the verification endpoint. The Authorization header
	// of every gated request is forwarded there verbatim.
	AuthServiceURL string
	AuthTimeout    time.Duration

	// RedisAddr backs both the rate-limit counters and the response cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DatabaseURL selects the postgres adapter when set; otherwise the
	// sqlite adapter opens DatabasePath.
	DatabaseURL  string
	DatabasePath string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	CacheTTL    time.Duration
	CachePrefix string
	CachePaths  []string

	OTLPEndpoint string
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:              "8080",
		MetricsPort:       "9091",
		Environment:       "development",
		AuthTimeout:       5 * time.Second,
		DatabasePath:      "database.db",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		CacheTTL:          30 * time.Second,
		CachePrefix:       "todosvc:cache",
		CachePaths:        []string{"/todos/", "/todos/:id"},
	}
}

// Load reads the process environment on top of the defaults. Missing
// required variables are an error: the caller must abort startup rather
// than serve half-configured.
func Load() (*AppConfig, error) {
	cfg := GetDefaultConfig()

	cfg.AuthServiceURL = os.Getenv("AUTH_SERVICE_URL")
	if cfg.AuthServiceURL == "" {
		return nil, fmt.Errorf("AUTH_SERVICE_URL is not set")
	}

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is not set")
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("METRICS_PORT"); v != "" {
		cfg.MetricsPort = v
	}

	if v := os.Getenv("GIN_MODE"); v == "release" {
		cfg.Environment = "production"
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS %q", v)
		}
		cfg.RateLimitRequests = n
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW %q", v)
		}
		cfg.RateLimitWindow = d
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}

	if v := os.Getenv("AUTH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid AUTH_TIMEOUT %q", v)
		}
		cfg.AuthTimeout = d
	}

	cfg.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")

	return cfg, nil
}
