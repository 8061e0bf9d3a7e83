package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTTTL    = "24h"
	defaultPort      = "8080"
	defaultJWTSecret = ""
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	RedisURL    string
	RabbitMQURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	ZaloPayAppID       string
	ZaloPayKey1        string
	ZaloPayKey2        string
	ZaloPayEndpoint    string
	ZaloPayCallbackURL string
}

// Load reads .env (when present) and the environment. DATABASE_URL and
// JWT_SECRET are required; everything else degrades to a disabled
// integration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      envOrDefault("APP_ENV", "development"),
		Port:        envOrDefault("PORT", defaultPort),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		RedisURL:    os.Getenv("REDIS_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: envOrDefault("MAIL_FROM", "no-reply@resortbooking.local"),

		ZaloPayAppID:       os.Getenv("ZALOPAY_APP_ID"),
		ZaloPayKey1:        os.Getenv("ZALOPAY_KEY1"),
		ZaloPayKey2:        os.Getenv("ZALOPAY_KEY2"),
		ZaloPayEndpoint:    envOrDefault("ZALOPAY_ENDPOINT", "https://sb-openapi.zalopay.vn/v2"),
		ZaloPayCallbackURL: os.Getenv("ZALOPAY_CALLBACK_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl, err := time.ParseDuration(envOrDefault("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	if port := os.Getenv("SMTP_PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &cfg.SMTPPort); err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
	} else {
		cfg.SMTPPort = 587
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
