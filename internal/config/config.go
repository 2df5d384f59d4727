// Package config provides application configuration loaded from the
// environment via Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Env            string
	Port           int
	LogLevel       string
	DatabaseURL    string
	RedisAddr      string
	JWTSecret      string
	TokenExpiry    time.Duration
	AllowedOrigins []string
	ImagesDir      string
	CacheTTL       time.Duration
}

// Load reads configuration from environment variables, applying defaults for
// everything except the database URL and JWT secret, which are required.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TOKEN_EXPIRY", "24h")
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("IMAGES_DIR", "images")
	v.SetDefault("CACHE_TTL", "5m")

	cfg := &Config{
		Env:            v.GetString("ENV"),
		Port:           v.GetInt("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenExpiry:    v.GetDuration("TOKEN_EXPIRY"),
		AllowedOrigins: v.GetStringSlice("ALLOWED_ORIGINS"),
		ImagesDir:      v.GetString("IMAGES_DIR"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	return cfg, nil
}
