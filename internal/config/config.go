// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	App    AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	Driver     string // memory, sqlite, postgres or redis
	SQLitePath string
	Database   DatabaseConfig
	RedisURL   string
	TTLMinutes int
	Migrate    bool
	// SweepSeconds is the expiry sweep interval for SQL backends.
	SweepSeconds int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	LogLevel      string
	CatalogFile   string
	SessionSecret string
	SecureCookies bool
	Timezone      string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TTL is the lifetime of session entries and cookies.
func (s StoreConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// SweepInterval is how often expired SQL rows are purged.
func (s StoreConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepSeconds) * time.Second
}

// Location resolves the configured timezone used for document dates.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "memory"),
			SQLitePath: getEnv("STORE_SQLITE_PATH", "studio.db"),
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnvInt("DB_PORT", 5432),
				User:     getEnv("DB_USER", "studio"),
				Password: getEnv("DB_PASSWORD", "studio123"),
				DBName:   getEnv("DB_NAME", "studio"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
			RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
			TTLMinutes:   getEnvInt("SESSION_TTL_MINUTES", 12*60),
			Migrate:      getEnvBool("MIGRATIONS", true),
			SweepSeconds: getEnvInt("STORE_SWEEP_SECONDS", 300),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			CatalogFile:   getEnv("CATALOG_FILE", ""),
			SessionSecret: getEnv("SESSION_SECRET", "devsessionsecret"),
			SecureCookies: getEnvBool("SECURE_COOKIES", false),
			Timezone:      getEnv("TZ_NAME", "Asia/Kolkata"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
