// Package config loads the engine configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const VERSION = "1.0"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Scheduler   SchedulerConfig
	Environment string
	// TrackingEndpoint is the public base URL tracked links and the
	// open pixel point back to
	TrackingEndpoint string
	LogLevel         string
	Version          string
}

type ServerConfig struct {
	Port int
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SchedulerConfig tunes queue generation and dispatch.
type SchedulerConfig struct {
	// AutoStart launches the scheduler and provider pollers on boot
	AutoStart bool
	// GenerationIntervalSeconds is how often due tasks are expanded
	GenerationIntervalSeconds int
	// GenerationBatchSize bounds one due-task sweep
	GenerationBatchSize int
}

// ConnectionString returns the lib/pq DSN for the configured database.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LoadOptions customizes configuration loading
type LoadOptions struct {
	EnvFile string
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mailfleet")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Scheduler defaults
	v.SetDefault("SCHEDULER_AUTO_START", true)
	v.SetDefault("SCHEDULER_GENERATION_INTERVAL", 30)
	v.SetDefault("SCHEDULER_GENERATION_BATCH_SIZE", 20)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	trackingEndpoint := v.GetString("TRACKING_ENDPOINT")
	if trackingEndpoint == "" {
		return nil, fmt.Errorf("TRACKING_ENDPOINT is required")
	}
	trackingEndpoint = strings.TrimSuffix(trackingEndpoint, "/")

	return &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Scheduler: SchedulerConfig{
			AutoStart:                 v.GetBool("SCHEDULER_AUTO_START"),
			GenerationIntervalSeconds: v.GetInt("SCHEDULER_GENERATION_INTERVAL"),
			GenerationBatchSize:       v.GetInt("SCHEDULER_GENERATION_BATCH_SIZE"),
		},
		Environment:      v.GetString("ENVIRONMENT"),
		TrackingEndpoint: trackingEndpoint,
		LogLevel:         v.GetString("LOG_LEVEL"),
		Version:          v.GetString("VERSION"),
	}, nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
