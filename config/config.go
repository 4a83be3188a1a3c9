package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"meetups.app/errors"
)

// Config represents the application configuration structure
type Config struct {
	Server     ServerConfig    `split_words:"true"`
	Database   DatabaseConfig  `split_words:"true"`
	Auth       AuthConfig      `split_words:"true"`
	Email      EmailConfig     `split_words:"true"`
	Worker     WorkerConfig    `split_words:"true"`
	Storage    StorageConfig   `split_words:"true"`
	Superuser  SuperuserConfig `split_words:"true"`
	AppBaseURL string          `envconfig:"APP_URL" default:"http://localhost:8080"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"meetups"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted database connection string
func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// AuthConfig contains token signing settings
type AuthConfig struct {
	SecretKey string `envconfig:"SECRET_KEY" required:"true"`
}

// EmailConfig contains email server and sending settings
type EmailConfig struct {
	SMTPHost     string `envconfig:"EMAIL_SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"EMAIL_SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"EMAIL_SMTP_USERNAME" required:"true"`
	SMTPPassword string `envconfig:"EMAIL_SMTP_PASSWORD" required:"true"`
	FromName     string `envconfig:"EMAIL_FROM_NAME" default:"Meetups"`
	FromAddress  string `envconfig:"EMAIL_FROM_ADDRESS" default:"no-reply@meetups.app"`
}

// WorkerConfig contains settings for the background task pool
type WorkerConfig struct {
	QueueType      string `envconfig:"WORKER_QUEUE_TYPE" default:"memory"`
	QueueSize      int    `envconfig:"WORKER_QUEUE_SIZE" default:"64"`
	Concurrency    int    `envconfig:"WORKER_CONCURRENCY" default:"4"`
	MaxRetries     int    `envconfig:"WORKER_MAX_RETRIES" default:"5"`
	BackoffSeconds int    `envconfig:"WORKER_BACKOFF_SECONDS" default:"1"`
	RedisAddr      string `envconfig:"WORKER_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string `envconfig:"WORKER_REDIS_PASSWORD" default:""`
	RedisDB        int    `envconfig:"WORKER_REDIS_DB" default:"0"`
	RedisQueueKey  string `envconfig:"WORKER_REDIS_QUEUE_KEY" default:"meetups:tasks"`
}

// StorageConfig contains durable file storage settings
type StorageConfig struct {
	BasePath string `envconfig:"STORAGE_BASE_PATH" default:"storage"`
}

// SuperuserConfig contains the bootstrap administrator account
type SuperuserConfig struct {
	Username string `envconfig:"SUPERUSER_NAME" default:""`
	Password string `envconfig:"SUPERUSER_PASS" default:""`
	Email    string `envconfig:"SUPERUSER_EMAIL" default:""`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Email.Validate(); err != nil {
		return err
	}
	if err := c.Worker.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.validateAppBaseURL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAppBaseURL() error {
	if c.AppBaseURL == "" {
		return errors.NewConfigurationError("APP_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(c.AppBaseURL, "http://") && !strings.HasPrefix(c.AppBaseURL, "https://") {
		return errors.NewConfigurationError("APP_URL must start with http:// or https://", nil)
	}
	return nil
}

// Validate checks server configuration
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks database configuration
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if c.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	return nil
}

// Validate checks token signing configuration
func (c *AuthConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.NewConfigurationError("SECRET_KEY cannot be empty", nil)
	}
	return nil
}

// Validate checks email configuration
func (c *EmailConfig) Validate() error {
	if c.SMTPHost == "" {
		return errors.NewConfigurationError("EMAIL_SMTP_HOST cannot be empty", nil)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return errors.NewConfigurationError("EMAIL_SMTP_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks worker configuration
func (c *WorkerConfig) Validate() error {
	if c.QueueType != "memory" && c.QueueType != "redis" {
		return errors.NewConfigurationError("WORKER_QUEUE_TYPE must be either 'memory' or 'redis'", nil)
	}
	if c.Concurrency <= 0 {
		return errors.NewConfigurationError("WORKER_CONCURRENCY must be positive", nil)
	}
	if c.MaxRetries < 0 {
		return errors.NewConfigurationError("WORKER_MAX_RETRIES cannot be negative", nil)
	}
	return nil
}

// Validate checks storage configuration
func (c *StorageConfig) Validate() error {
	if c.BasePath == "" {
		return errors.NewConfigurationError("STORAGE_BASE_PATH cannot be empty", nil)
	}
	return nil
}
