package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	ServiceName    = "shop-service"
	ServiceVersion = "1.0.0"
)

type Config struct {
	DatabaseURL    string
	HTTPPort       int
	RequestTimeout time.Duration
	AutoMigrate    bool

	RedisAddr string
	CacheTTL  time.Duration

	RabbitMQURL string

	ConsulAddr string
	ServiceID  string

	OtelEndpoint   string
	OtelAuthHeader string

	LogLevel string
}

// Load reads configuration from the environment. Optional integrations stay
// disabled when their variable is empty.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		ConsulAddr:     os.Getenv("CONSUL_ADDR"),
		ServiceID:      getEnv("SERVICE_ID", ServiceName+"-1"),
		OtelEndpoint:   os.Getenv("OTEL_ENDPOINT"),
		OtelAuthHeader: os.Getenv("OTEL_AUTH_HEADER"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		port, err := getInt("DB_PORT", 5432)
		if err != nil {
			return nil, err
		}
		cfg.DatabaseURL = PostgresDSN(
			os.Getenv("DB_HOST"), port,
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"),
		)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	if cfg.HTTPPort, err = getInt("HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// PostgresDSN builds a lib/pq connection URL.
func PostgresDSN(host string, port int, user, password, dbname string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		Path:     "/" + dbname,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
