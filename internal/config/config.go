package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		CORS
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Auth struct {
		JWTSecret  string
		JWTExpiry  time.Duration
		BcryptCost int
	}

	CORS struct {
		AllowedOrigins []string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", "./bookshelf.db")

	// Auth defaults
	v.SetDefault("jwt_secret", "")     // Must be set in production
	v.SetDefault("jwt_expiry", "24h")  // Token lifetime
	v.SetDefault("bcrypt_cost", 12)    // bcrypt cost factor

	// CORS defaults: allow the local Vite dev server
	v.SetDefault("cors_allowed_origins", "http://localhost:5173")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			JWTSecret:  v.GetString("JWT_SECRET"),
			JWTExpiry:  v.GetDuration("JWT_EXPIRY"),
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		CORS: CORS{
			AllowedOrigins: splitOrigins(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

// splitOrigins parses a comma-separated origin list, trimming whitespace.
func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
