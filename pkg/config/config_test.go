package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.False(t, cfg.DB.Enabled(), "sin DB_HOST ni DATABASE_URL se usa el store en memoria")
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, int64(10<<20), cfg.Storage.MaxImageBytes())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_HOST", "db")
	v.Set("DB_PASSWORD", "p@ss:word")
	v.Set("LEDGER_MAX_RETRIES", "0")
	v.Set("HTTP_PORT", "9090")
	v.Set("STORAGE_GCS_BUCKET", "estoque-fotos")
	v.Set("DB_FORCE_IPV4", "true")
	v.Set("LOG_LEVEL", "debug")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.DB.Enabled())
	assert.Equal(t, "postgres://postgres:p%40ss%3Aword@db:5432/estoque?sslmode=disable", cfg.DB.ConnectionString())
	assert.Equal(t, 0, cfg.Ledger.MaxRetries)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "estoque-fotos", cfg.Storage.GCSBucket)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestFromViper_Validaciones(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_MAX_RETRIES", -1)
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("APP_ENV", "production")
	_, err = fromViper(v)
	assert.Error(t, err, "producción exige JWT_SECRET")
}
