package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// app config; Gemini-specific settings live in llm/gemini
type Config struct {
	Environment    string        `yaml:"environment"`
	Port           string        `yaml:"port"`
	Provider       string        `yaml:"provider"`
	AITimeout      time.Duration `yaml:"ai_timeout"`
	DatabaseDriver string        `yaml:"database_driver"`
	DatabaseDSN    string        `yaml:"database_dsn"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SweepEnabled   bool          `yaml:"sweep_enabled"`
	SweepSchedule  string        `yaml:"sweep_schedule"`
	MaxSessionAge  time.Duration `yaml:"max_session_age"`
	RedisAddr      string        `yaml:"redis_addr"`
	EventsChannel  string        `yaml:"events_channel"`
}

// loads configuration from environment variables, then overlays CONFIG_FILE if set
func LoadConfig() (*Config, error) {
	config := &Config{
		Environment:    getEnvOrDefault("APP_ENV", "development"),
		Port:           getEnvOrDefault("PORT", "8080"),
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
		AITimeout:      getEnvDuration("AI_TIMEOUT", 30*time.Second),
		DatabaseDriver: getEnvOrDefault("DB_DRIVER", "sqlite"),
		DatabaseDSN:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		SweepEnabled:   getEnvOrDefault("SESSION_SWEEP_ENABLED", "true") == "true",
		SweepSchedule:  getEnvOrDefault("SESSION_SWEEP_SCHEDULE", "@every 1h"),
		MaxSessionAge:  getEnvDuration("SESSION_MAX_AGE", 24*time.Hour),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		EventsChannel:  getEnvOrDefault("EVENTS_CHANNEL", "interview_session_ended"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	if config.DatabaseDSN == "" {
		config.DatabaseDSN = defaultDSN(config.DatabaseDriver)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsDevelopment gates destructive testing endpoints.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func loadFile(path string, config *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	if config.DatabaseDriver != "postgres" && config.DatabaseDriver != "sqlite" {
		return errors.New("unsupported database driver: " + config.DatabaseDriver + ". Supported: postgres, sqlite")
	}
	if config.AITimeout <= 0 {
		return errors.New("ai_timeout must be positive")
	}
	if config.SweepEnabled && config.MaxSessionAge <= 0 {
		return errors.New("max_session_age must be positive when the session sweeper is enabled")
	}
	return nil
}

// postgres falls back to discrete POSTGRES_* variables
func defaultDSN(driver string) string {
	if driver == "postgres" {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getEnvOrDefault("POSTGRES_HOST", "localhost"),
			getEnvOrDefault("POSTGRES_USER", "postgres"),
			getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			getEnvOrDefault("POSTGRES_DB", "postgres"),
			getEnvOrDefault("POSTGRES_PORT", "5432"),
			getEnvOrDefault("POSTGRES_SSLMODE", "disable"))
	}
	return "interview.db?_foreign_keys=on"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
