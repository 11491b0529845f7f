package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nailscodev/backend/pkg/scheduler"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DataPath    string `mapstructure:"DATA_PATH"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	APIMasterSecret string `mapstructure:"API_MASTER_SECRET"`
	AdminUsername   string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword   string `mapstructure:"ADMIN_PASSWORD"`

	// Redis configuration. An empty address disables the availability cache.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	CacheTTLSeconds   int    `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Business hours as HH:MM local wall clock.
	BusinessOpen        string `mapstructure:"BUSINESS_OPEN"`
	BusinessClose       string `mapstructure:"BUSINESS_CLOSE"`
	SlotIntervalMinutes int    `mapstructure:"SLOT_INTERVAL_MINUTES"`
}

// LoadEnvFiles loads the first .env found in the working directory or its parents
func LoadEnvFiles() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads config.yaml (optional) and the environment into a Config
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := cfg.SchedulerConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_PATH", "salon.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("API_MASTER_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 60)
	v.SetDefault("MAX_REQUESTS_PER_MIN", 120)
	v.SetDefault("BUSINESS_OPEN", "07:30")
	v.SetDefault("BUSINESS_CLOSE", "21:30")
	v.SetDefault("SLOT_INTERVAL_MINUTES", 60)
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SchedulerConfig converts business hours into the scheduler's minute window
func (c *Config) SchedulerConfig() (scheduler.Config, error) {
	open, err := scheduler.MinutesOfDay(c.BusinessOpen)
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("BUSINESS_OPEN: %w", err)
	}
	closing, err := scheduler.MinutesOfDay(c.BusinessClose)
	if err != nil {
		return scheduler.Config{}, fmt.Errorf("BUSINESS_CLOSE: %w", err)
	}
	if closing <= open {
		return scheduler.Config{}, fmt.Errorf("business hours %s-%s: close must be after open", c.BusinessOpen, c.BusinessClose)
	}
	if c.SlotIntervalMinutes <= 0 {
		return scheduler.Config{}, fmt.Errorf("SLOT_INTERVAL_MINUTES must be positive, got %d", c.SlotIntervalMinutes)
	}
	return scheduler.Config{OpenMinute: open, CloseMinute: closing, SlotInterval: c.SlotIntervalMinutes}, nil
}
