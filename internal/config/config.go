package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sarhadi-autos/ledger/internal/ledger"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
	OverdueSpec  string `mapstructure:"SCHEDULER_OVERDUE_SPEC"`
	ReminderSpec string `mapstructure:"SCHEDULER_REMINDER_SPEC"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	LateFeeDaysPerMonth int    `mapstructure:"LATE_FEE_DAYS_PER_MONTH"`
	DefaultPlan         string `mapstructure:"DEFAULT_INSTALLMENT_PLAN"`
	SnapshotTTL         string `mapstructure:"STATUS_SNAPSHOT_TTL"`
	ReminderWindowDays  int    `mapstructure:"REMINDER_WINDOW_DAYS"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LATE_FEE_DAYS_PER_MONTH", 30)
	viper.SetDefault("DEFAULT_INSTALLMENT_PLAN", "24 Months")
	viper.SetDefault("STATUS_SNAPSHOT_TTL", "10m")
	viper.SetDefault("REMINDER_WINDOW_DAYS", 3)
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Karachi")
	viper.SetDefault("SCHEDULER_OVERDUE_SPEC", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_REMINDER_SPEC", "0 0 9 * * SUN")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.LateFeeDaysPerMonth <= 0 {
		return fmt.Errorf("LATE_FEE_DAYS_PER_MONTH must be greater than 0")
	}

	if c.Business.ReminderWindowDays <= 0 {
		return fmt.Errorf("REMINDER_WINDOW_DAYS must be greater than 0")
	}

	// Validate snapshot TTL
	if _, err := time.ParseDuration(c.Business.SnapshotTTL); err != nil {
		return fmt.Errorf("STATUS_SNAPSHOT_TTL must be a valid duration: %w", err)
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// OverduePolicy returns the configured late-fee policy
func (c *Config) OverduePolicy() ledger.OverduePolicy {
	return ledger.OverduePolicy{DaysPerMonth: c.Business.LateFeeDaysPerMonth}
}

// GetSnapshotTTL returns the status snapshot cache TTL as duration
func (c *Config) GetSnapshotTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.SnapshotTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
