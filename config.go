package focusflow

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	HTTPAddr      string
	JWTSecret     string
	TokenTTL      time.Duration
	SweepInterval time.Duration
	LogLevel      string
	CORSOrigins   []string
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	config := Config{
		DatabaseURL:   os.Getenv("FOCUSFLOW_DB_PATH"),
		HTTPAddr:      os.Getenv("FOCUSFLOW_HTTP_ADDR"),
		JWTSecret:     os.Getenv("FOCUSFLOW_JWT_SECRET"),
		TokenTTL:      24 * time.Hour,
		SweepInterval: time.Minute,
		LogLevel:      os.Getenv("FOCUSFLOW_LOG_LEVEL"),
	}

	if config.DatabaseURL == "" {
		config.DatabaseURL = "focusflow.db"
	}
	if config.HTTPAddr == "" {
		config.HTTPAddr = ":8080"
	}
	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("required environment variable: FOCUSFLOW_JWT_SECRET")
	}

	if v := os.Getenv("FOCUSFLOW_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FOCUSFLOW_TOKEN_TTL: %w", err)
		}
		config.TokenTTL = ttl
	}
	if v := os.Getenv("FOCUSFLOW_SWEEP_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FOCUSFLOW_SWEEP_INTERVAL: %w", err)
		}
		config.SweepInterval = interval
	}
	if v := os.Getenv("FOCUSFLOW_CORS_ORIGINS"); v != "" {
		config.CORSOrigins = strings.Split(v, ",")
	} else {
		config.CORSOrigins = []string{"*"}
	}

	return config, nil
}
