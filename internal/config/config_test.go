package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}
	return path
}

const baseConfig = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  user: "driveshare"
  password: "secret"
  database: "driveshare"
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`

func TestLoad(t *testing.T) {
	t.Run("Defaults filled in", func(t *testing.T) {
		cfg, err := Load(writeConfigFile(t, baseConfig))
		assert.NoError(t, err)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, 60, cfg.JWT.AccessTokenExpiry)
		assert.Equal(t, "0 */15 * * * *", cfg.Scheduler.ExpireStaleReservations)
		assert.Equal(t, "0 0 1 * * *", cfg.Scheduler.DeactivateEndedVouchers)
		assert.Equal(t, 24, cfg.Reservation.PendingExpiryHours)
		assert.False(t, cfg.RabbitMQ.Enabled)
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("SERVER_PORT", "9090")

		cfg, err := Load(writeConfigFile(t, baseConfig))
		assert.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
	})

	t.Run("Short JWT secret rejected", func(t *testing.T) {
		content := `
server:
  port: 8080
database:
  host: "localhost"
  user: "driveshare"
  database: "driveshare"
jwt:
  secret: "tooshort"
`
		_, err := Load(writeConfigFile(t, content))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("Enabled rabbitmq requires host", func(t *testing.T) {
		content := baseConfig + `
rabbitmq:
  enabled: true
  port: 5672
`
		_, err := Load(writeConfigFile(t, content))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq host is required")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		assert.Error(t, err)
	})
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"},
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/d?sslmode=disable", cfg.GetDatabaseConnectionString())
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
}
