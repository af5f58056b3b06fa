// Package config gathers process configuration from configs/.env, .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DB    DBConfig
	Redis RedisConfig
	Log   LogConfig

	JWTSecret          string
	CORSAllowedOrigins []string
	DashboardCacheTTL  time.Duration
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN renders the postgres connection URL.
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled is false when no address is configured; callers fall back to a no-op cache.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads dotenv files if present and then the environment. Missing files are not an error.
func Load() (Config, error) {
	_ = godotenv.Load("configs/.env")
	_ = godotenv.Load(".env")
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "debug"),
		DB: DBConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", "postgres"),
			Name:     getenv("DB_NAME", "postgres"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
			File:   os.Getenv("LOG_FILE"),
		},
		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
	}

	var err error
	if cfg.DB.MaxOpenConns, err = getint("DB_MAX_OPEN_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.DB.MaxIdleConns, err = getint("DB_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DB, err = getint("REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	ttl, err := time.ParseDuration(getenv("DASHBOARD_CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid DASHBOARD_CACHE_TTL: %w", err)
	}
	cfg.DashboardCacheTTL = ttl

	if cfg.JWTSecret == "" {
		if cfg.GinMode == "release" {
			return Config{}, fmt.Errorf("JWT_SECRET is required in release mode")
		}
		cfg.JWTSecret = "default_super_secret_key" // development only
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
