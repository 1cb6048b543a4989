package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL    string
	DBMaxOpenConns int
	JWTSecretKey   string
	ServerPort     int
	TokenTTL       time.Duration

	RedisURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	DefaultTeamLogoURL string
	CountriesAPIURL    string
	CORSAllowedOrigins []string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	maxConns, err := strconv.Atoi(getEnvOrDefault("DB_MAX_OPEN_CONNS", "25"))
	if err != nil || maxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be a positive integer, got %q", os.Getenv("DB_MAX_OPEN_CONNS"))
	}

	port, err := parsePort(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	tokenTTL, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL environment variable: %w", err)
	}
	if tokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", tokenTTL)
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBMaxOpenConns: maxConns,
		JWTSecretKey:   jwtKey,
		ServerPort:     port,
		TokenTTL:       tokenTTL,

		RedisURL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),

		DefaultTeamLogoURL: getEnvOrDefault("DEFAULT_TEAM_LOGO_URL", "/static/escudo-generico.png"),
		CountriesAPIURL:    getEnvOrDefault("COUNTRIES_API_URL", "https://restcountries.com/v3.1"),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	return cfg, nil
}

// R2Enabled сообщает, заданы ли все параметры Cloudflare R2.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	return port, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
