package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseDriver  string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	NotifyChannel   string
	NotifyURLs      []string
	JWTSecret       string
	DefaultPageSize int
	MaxPageSize     int
	LogLevel        string
	LogFile         string
	RateLimitMax    int
	RateLimitWindow time.Duration
	FeedCacheTTL    time.Duration
	AllowOrigins    string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Production reports whether the service runs in production.
func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ELPLANO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "El Plano API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("notify.channel", "elplano")
	v.SetDefault("notify.urls", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("finder.default_page_size", 15)
	v.SetDefault("finder.max_page_size", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("rate_limit.max", 120)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("cache.feed_ttl", "30s")
	v.SetDefault("cors.allow_origins", "*")

	window, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	feedTTL, err := time.ParseDuration(v.GetString("cache.feed_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid feed cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseDriver:  strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		NotifyChannel:   v.GetString("notify.channel"),
		NotifyURLs:      splitList(v.GetString("notify.urls")),
		JWTSecret:       v.GetString("jwt.secret"),
		DefaultPageSize: v.GetInt("finder.default_page_size"),
		MaxPageSize:     v.GetInt("finder.max_page_size"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		LogFile:         v.GetString("log.file"),
		RateLimitMax:    v.GetInt("rate_limit.max"),
		RateLimitWindow: window,
		FeedCacheTTL:    feedTTL,
		AllowOrigins:    v.GetString("cors.allow_origins"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize <= 0 {
		return Config{}, fmt.Errorf("finder page sizes must be positive")
	}

	if cfg.DefaultPageSize > cfg.MaxPageSize {
		return Config{}, fmt.Errorf("finder default page size %d exceeds max %d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 120
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
