package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Supported storage and session backends
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	// PriorityCeiling is the highest priority rank an aspiration may carry.
	PriorityCeiling = 10
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout    string   `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout   string   `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		LoginRateLimit float64  `yaml:"login_rate_limit" env:"SERVER_LOGIN_RATE_LIMIT"`
		LoginBurst     int      `yaml:"login_burst" env:"SERVER_LOGIN_BURST"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		Seed            bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Session struct {
		TTL           string `yaml:"ttl" env:"SESSION_TTL"`
		Store         string `yaml:"store" env:"SESSION_STORE"`
		Capacity      int    `yaml:"capacity" env:"SESSION_CAPACITY"`
		SweepInterval string `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL"`
		RedisURL      string `yaml:"redis_url" env:"SESSION_REDIS_URL"`
		KeyPrefix     string `yaml:"key_prefix" env:"SESSION_KEY_PREFIX"`
	} `yaml:"session"`

	Admission struct {
		MaxAspirationsPerExam int  `yaml:"max_aspirations_per_exam" env:"ADMISSION_MAX_ASPIRATIONS"`
		EnforceQuota          bool `yaml:"enforce_quota" env:"ADMISSION_ENFORCE_QUOTA"`
		MaxPriority           int  `yaml:"max_priority" env:"ADMISSION_MAX_PRIORITY"`
	} `yaml:"admission"`

	Payment struct {
		AspirationFee int64    `yaml:"aspiration_fee" env:"PAYMENT_ASPIRATION_FEE"`
		Currency      string   `yaml:"currency" env:"PAYMENT_CURRENCY"`
		Methods       []string `yaml:"methods" env:"PAYMENT_METHODS"`
	} `yaml:"payment"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing config file is fine, defaults and environment still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.AllowedOrigins = []string{"*"}
	config.Server.LoginRateLimit = 5
	config.Server.LoginBurst = 10

	// Database defaults
	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "admission"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.Seed = true

	// Session defaults
	config.Session.TTL = "24h"
	config.Session.Store = SessionStoreMemory
	config.Session.Capacity = 100000
	config.Session.SweepInterval = "10m"
	config.Session.RedisURL = "redis://localhost:6379/0"
	config.Session.KeyPrefix = "admission:session:"

	// Admission defaults
	config.Admission.MaxAspirationsPerExam = 4
	config.Admission.EnforceQuota = true
	config.Admission.MaxPriority = PriorityCeiling

	// Payment defaults
	config.Payment.AspirationFee = 50000
	config.Payment.Currency = "VND"
	config.Payment.Methods = []string{"bank_transfer", "momo", "zalopay", "credit_card"}

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	switch config.Session.Store {
	case SessionStoreMemory:
		if config.Session.Capacity <= 0 {
			return fmt.Errorf("session capacity must be positive")
		}
	case SessionStoreRedis:
		if config.Session.RedisURL == "" {
			return fmt.Errorf("session redis url is required for the redis store")
		}
	default:
		return fmt.Errorf("unsupported session store %q", config.Session.Store)
	}

	ttl, err := time.ParseDuration(config.Session.TTL)
	if err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	if config.Session.SweepInterval != "" {
		if _, err := time.ParseDuration(config.Session.SweepInterval); err != nil {
			return fmt.Errorf("invalid session sweep interval: %w", err)
		}
	}

	for _, d := range []string{config.Server.ReadTimeout, config.Server.WriteTimeout} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid server timeout %q: %w", d, err)
		}
	}

	if config.Admission.MaxPriority < 1 || config.Admission.MaxPriority > PriorityCeiling {
		return fmt.Errorf("max priority must be between 1 and %d", PriorityCeiling)
	}
	if config.Admission.MaxAspirationsPerExam < 1 {
		return fmt.Errorf("max aspirations per exam must be positive")
	}

	if config.Payment.AspirationFee <= 0 {
		return fmt.Errorf("aspiration fee must be positive")
	}
	if len(config.Payment.Methods) == 0 {
		return fmt.Errorf("at least one payment method is required")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
