package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Workday  WorkdayConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port          int
	Env           string
	LogLevel      string
	AdminPassword string
}

// WorkdayConfig holds the process-wide time-tracking constants: the
// time-of-day past which a first check-in counts as late, the standard
// work-day length used for overtime, and the read-cache lifetime.
type WorkdayConfig struct {
	CutoffHour    int
	CutoffMinute  int
	StandardHours float64
	CacheTTL      time.Duration
}

type StorageConfig struct {
	BasePath string
}

func Load() (*Config, error) {
	// A missing .env is fine in deployed environments; variables come
	// from the process environment there.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:          appPort,
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Workday configuration
	cutoff, ok := validator.IsValidClockTime(getEnv("WORK_START_TIME", "09:00"))
	if !ok {
		return nil, fmt.Errorf("invalid WORK_START_TIME: must be formatted HH:MM")
	}

	standardHours, err := strconv.ParseFloat(getEnv("STANDARD_WORK_HOURS", "8"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STANDARD_WORK_HOURS: %w", err)
	}

	cacheTTLSeconds, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}

	config.Workday = WorkdayConfig{
		CutoffHour:    cutoff.Hour(),
		CutoffMinute:  cutoff.Minute(),
		StandardHours: standardHours,
		CacheTTL:      time.Duration(cacheTTLSeconds) * time.Second,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage/reports"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.App.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.Workday.StandardHours <= 0 {
		return fmt.Errorf("STANDARD_WORK_HOURS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
