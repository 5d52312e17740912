package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Weather WeatherConfig
	DB      DBConfig
	Server  ServerConfig
	Log     LogConfig
	Seeder  SeederConfig
}

// DBType represents database type
type DBType string

const (
	DBTypeMemory     DBType = "memory"
	DBTypeSQLite     DBType = "sqlite"
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMongo      DBType = "mongo"
)

// WeatherConfig holds settings for the upstream weather provider
type WeatherConfig struct {
	APIKey  string `validate:"required"`
	BaseURL string `validate:"required,url"`
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration `validate:"gte=0"`
	// BreakerMaxFailures is the number of consecutive transport failures that
	// open the circuit breaker. Zero disables tripping.
	BreakerMaxFailures int           `validate:"gte=0"`
	BreakerTimeout     time.Duration `validate:"gte=0"`
}

// DBConfig holds database configuration
type DBConfig struct {
	Type       DBType `validate:"oneof=memory sqlite postgres mongo"`
	Host       string
	Port       string
	User       string
	Password   string
	Name       string `validate:"required"`
	SSLMode    string
	Path       string
	MongoURI   string
	Collection string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	switch c.Type {
	case DBTypeMemory:
		if c.Name != "" && c.Name != "weather_requests" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	case DBTypeSQLite:
		return fmt.Sprintf("file:%s?cache=shared", c.Path)
	case DBTypeMongo:
		return c.MongoURI
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// IsSQL reports whether the store is backed by database/sql
func (c DBConfig) IsSQL() bool {
	return c.Type != DBTypeMongo
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `validate:"required,numeric"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// SeederConfig holds settings for history import
type SeederConfig struct {
	File      string
	BatchSize int `validate:"gt=0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Weather: WeatherConfig{
			APIKey:             os.Getenv("OPENWEATHERMAP_API_KEY"),
			BaseURL:            os.Getenv("WEATHER_API_URL"),
			Timeout:            getEnvAsDuration("WEATHER_HTTP_TIMEOUT", 0),
			BreakerMaxFailures: getEnvAsInt("WEATHER_BREAKER_MAX_FAILURES", 5),
			BreakerTimeout:     getEnvAsDuration("WEATHER_BREAKER_TIMEOUT", 30*time.Second),
		},
		DB: DBConfig{
			Type:       DBType(getEnv("DB_TYPE", string(DBTypeMongo))),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "weather"),
			Password:   getEnv("DB_PASSWORD", "weather_password"),
			Name:       getEnv("DB_NAME", "weather_requests"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			Path:       getEnv("DB_PATH", "weather.db"),
			MongoURI:   getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Collection: getEnv("DB_COLLECTION", "requests"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "5000"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Seeder: SeederConfig{
			File:      os.Getenv("SEED_FILE"),
			BatchSize: getEnvAsInt("SEEDER_BATCH_SIZE", 500),
		},
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
