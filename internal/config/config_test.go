package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLoadDefaults checks the defaults applied when only the mandatory
// database user is set.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "test", cfg.DBName)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.True(t, cfg.RequestLogging)
}

// TestLoadOverrides checks that every setting can be overridden from the
// environment.
func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")
	t.Setenv("DBHOST", "db.example.com")
	t.Setenv("DBNAME", "addressbook")
	t.Setenv("ADMIN_PASSWORD", "changed")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("GIN_LOGGING", "OFF")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.RequestLogging)
	assert.Equal(t, "dirk:bullo92@tcp(db.example.com)/addressbook?parseTime=true", cfg.DSN())
}

// TestLoadMissingUser expects an error when DBUSER is not set.
func TestLoadMissingUser(t *testing.T) {
	t.Setenv("DBUSER", "")

	_, err := Load()
	assert.Error(t, err)
}

// TestLoadInvalidPort expects an error when PORT is not a number.
func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DBUSER", "dirk")

	_, err := Load()
	assert.Error(t, err)
}
