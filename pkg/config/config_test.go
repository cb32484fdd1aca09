package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashbonde99/CarRentalServicesProject/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.NewConfig()
		require.NoError(t, err)

		assert.Equal(t, ":5000", cfg.Server.Address)
		assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.IdleTimeout)

		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, "carrental", cfg.Database.Name)
		assert.Equal(t, 99, cfg.Database.MaxPoolConns)

		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_ADDRESS", ":8080")
		t.Setenv("SERVER_READ_TIMEOUT", "5s")
		t.Setenv("POSTGRES_HOST", "db.internal")
		t.Setenv("POSTGRES_DB", "rentals")
		t.Setenv("MAX_CONNS", "10")
		t.Setenv("PAYMENT_WEBHOOK_SECRET", "hunter2")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

		cfg, err := config.NewConfig()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Address)
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "rentals", cfg.Database.Name)
		assert.Equal(t, 10, cfg.Database.MaxPoolConns)
		assert.Equal(t, "hunter2", cfg.Payment.WebhookSecret)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SERVER_WRITE_TIMEOUT", "soon")

		_, err := config.NewConfig()
		assert.Error(t, err)
	})

	t.Run("bad max conns", func(t *testing.T) {
		t.Setenv("MAX_CONNS", "many")

		_, err := config.NewConfig()
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	dc := config.DatabaseConfig{
		Host:         "db.internal",
		Port:         "5432",
		Name:         "rentals",
		User:         "svc",
		Password:     "secret",
		MaxPoolConns: 10,
	}
	assert.Equal(t, "host=db.internal port=5432 dbname=rentals user=svc password=secret pool_max_conns=10", dc.DSN())
}
