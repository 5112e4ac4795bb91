// Package config loads the immutable service configuration from environment
// variables. The struct is constructed once at startup and passed explicitly
// to the components that need it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime settings of the service.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int
	// DBUser, DBPassword, DBHost and DBName describe the MySQL connection.
	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string
	// AdminPassword is the password of the bootstrap admin account that is
	// seeded on first startup.
	AdminPassword string
	// AllowedOrigins are the CORS origins permitted to send credentialed
	// requests.
	AllowedOrigins []string
	// StaticDir, when non-empty, is a directory of frontend files served for
	// non-API routes.
	StaticDir string
	// RequestLogging turns gin's per-request log lines on or off.
	RequestLogging bool
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Load reads the configuration from the environment, applying defaults for
// everything except the database credentials.
func Load() (Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return Config{}, fmt.Errorf("could not parse PORT env variable: %w", err)
	}
	cfg := Config{
		Port:           port,
		DBUser:         os.Getenv("DBUSER"),
		DBPassword:     os.Getenv("DBPWD"),
		DBHost:         getEnv("DBHOST", "localhost"),
		DBName:         getEnv("DBNAME", "test"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		StaticDir:      os.Getenv("STATIC_DIR"),
		RequestLogging: !strings.EqualFold(os.Getenv("GIN_LOGGING"), "off"),
	}
	if cfg.DBUser == "" {
		return Config{}, fmt.Errorf("DBUSER env variable is not set")
	}
	return cfg, nil
}

// DSN returns the MySQL data source name for the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBName)
}
