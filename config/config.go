package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string
	DBDSN    string
	DBDebug  bool

	JWTSecret string
	TokenTTL  time.Duration
	Location  *time.Location

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFromName string

	AdminEmail      string
	AdminPassword   string
	TableCapacities []int

	CORSOrigins     []string
	RateLimitRPS    float64
	RateLimitBurst  int
	NotifyQueueSize int
}

// Load membaca .env (opsional) lalu environment variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debugf(".env file not loaded: %v", err)
	}

	cfg := Config{
		Port:          envOrDefault("PORT", "8080"),
		GinMode:       envOrDefault("GIN_MODE", "debug"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		DBDriver:      strings.ToLower(envOrDefault("DB_DRIVER", "sqlite")),
		DBDSN:         strings.TrimSpace(os.Getenv("DB_DSN")),
		DBDebug:       envBool("DB_DEBUG"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  envOrDefault("SMTP_FROM_NAME", "Pizzeria Reservations"),
		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		CORSOrigins:   splitList(envOrDefault("CORS_ORIGINS", "http://127.0.0.1:5500")),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(envOrDefault("TOKEN_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	tz := envOrDefault("TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	if cfg.TableCapacities, err = parseCapacities(envOrDefault("TABLE_CAPACITIES", "2,2,4,4,6,6")); err != nil {
		return Config{}, err
	}

	if cfg.RateLimitRPS, err = strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "5"), 64); err != nil || cfg.RateLimitRPS <= 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS")
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "10")); err != nil || cfg.RateLimitBurst < 1 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_BURST")
	}
	if cfg.NotifyQueueSize, err = strconv.Atoi(envOrDefault("NOTIFY_QUEUE_SIZE", "256")); err != nil || cfg.NotifyQueueSize < 1 {
		return Config{}, fmt.Errorf("invalid NOTIFY_QUEUE_SIZE")
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBDSN == "" {
			cfg.DBDSN = "reservations.db"
		}
	case "mysql":
		if cfg.DBDSN == "" {
			cfg.DBDSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				envOrDefault("DB_USER", "root"),
				os.Getenv("DB_PASS"),
				envOrDefault("DB_HOST", "127.0.0.1"),
				envOrDefault("DB_PORT", "3306"),
				envOrDefault("DB_NAME", "reservations"),
			)
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// SMTPConfigured reports whether real email delivery is possible.
func (c Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseCapacities(s string) ([]int, error) {
	var out []int
	for _, p := range splitList(s) {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid TABLE_CAPACITIES entry %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
