package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Бэкенды хранения сессий
const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	APIBaseURL    string `mapstructure:"API_BASE_URL"`
	Environment   string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	Timezone      string `mapstructure:"TIMEZONE"`

	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`

	SessionBackend       string        `mapstructure:"SESSION_BACKEND"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`

	DBDSN string `mapstructure:"DB_DSN"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения без загрузки .env
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:  firstNonEmpty(os.Getenv("TELEGRAM_TOKEN"), os.Getenv("BOT_TOKEN")),
		APIBaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("API_BASE_URL")), "/"),
		Environment:    os.Getenv("ENV"),
		LogLevel:       strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		Timezone:       os.Getenv("TIMEZONE"),
		SessionBackend: strings.ToLower(os.Getenv("SESSION_BACKEND")),
		DBDSN:          os.Getenv("DB_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Kyiv"
	}
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = SessionBackendMemory
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}

	var err error
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = durationEnv("SESSION_SWEEP_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if cfg.RedisDB, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
		}
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required but not set")
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	case SessionBackendPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for SESSION_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location возвращает часовой пояс для отображения времени бронирований
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
