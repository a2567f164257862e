package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Review   ReviewConfig   `mapstructure:"review"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RemoteConfig holds the endpoints and transport settings for the
// services the dashboard consumes.
type RemoteConfig struct {
	PlanStoreURL  string        `mapstructure:"plan_store_url"`
	IdentityURL   string        `mapstructure:"identity_url"`
	CatalogURL    string        `mapstructure:"catalog_url"`
	AuthToken     string        `mapstructure:"auth_token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
}

// ReviewConfig holds the reconciliation tunables.
type ReviewConfig struct {
	PageLimit        int           `mapstructure:"page_limit"`
	SuccessNoticeTTL time.Duration `mapstructure:"success_notice_ttl"`
	ErrorNoticeTTL   time.Duration `mapstructure:"error_notice_ttl"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Remote defaults
	viper.SetDefault("remote.timeout", 15*time.Second)
	viper.SetDefault("remote.retry_attempts", 2)

	// Review defaults
	viper.SetDefault("review.page_limit", 50)
	viper.SetDefault("review.success_notice_ttl", 3*time.Second)
	viper.SetDefault("review.error_notice_ttl", 5*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/reviewdesk.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("remote.plan_store_url", "REVIEWDESK_PLAN_STORE_URL")
	viper.BindEnv("remote.identity_url", "REVIEWDESK_IDENTITY_URL")
	viper.BindEnv("remote.catalog_url", "REVIEWDESK_CATALOG_URL")
	viper.BindEnv("remote.auth_token", "REVIEWDESK_AUTH_TOKEN")
	viper.BindEnv("database.path", "REVIEWDESK_DB_PATH")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Remote.PlanStoreURL == "" {
		return fmt.Errorf("remote.plan_store_url is required")
	}
	if c.Remote.IdentityURL == "" {
		return fmt.Errorf("remote.identity_url is required")
	}
	if c.Remote.CatalogURL == "" {
		return fmt.Errorf("remote.catalog_url is required")
	}
	if c.Review.PageLimit <= 0 {
		return fmt.Errorf("review.page_limit must be positive")
	}
	return nil
}
