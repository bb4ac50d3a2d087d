package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.False(t, cfg.TrustClientTotals)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "/var/lib/pos/pos.db")
	t.Setenv("TRUST_CLIENT_TOTALS", "true")
	t.Setenv("PRINTER_ENABLED", "1")
	t.Setenv("CORS_ORIGINS", " http://caja.local , ,http://admin.local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/var/lib/pos/pos.db", cfg.DatabaseURL)
	assert.True(t, cfg.TrustClientTotals)
	assert.True(t, cfg.PrinterEnabled)
	assert.Equal(t, []string{"http://caja.local", "http://admin.local"}, cfg.AllowedOrigins())
}

func TestAllowedOriginsEmpty(t *testing.T) {
	assert.Empty(t, (&Config{}).AllowedOrigins())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		t.Setenv("JWT_SECRET", secret)
		cfg, err := Load()
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
		assert.Nil(t, cfg)
	}
}
