package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 5*time.Minute, cfg.Realtime.Resync())
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.True(t, cfg.DB.MigrationsAuto)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("MIGRATIONS_AUTO", "false")
	v.Set("AI_PROVIDER", "Anthropic")
	v.Set("LOW_STOCK_THRESHOLD", "no-es-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.MigrationsAuto)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold, "un entero inválido vuelve al valor por defecto")
}

func TestRealtimeConfig_ResyncDesactivable(t *testing.T) {
	v := viper.New()
	v.Set("REALTIME_RESYNC_SECONDS", "0")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Zero(t, cfg.Realtime.Resync())
}

func TestFromViper_ProveedorInvalido(t *testing.T) {
	v := viper.New()
	v.Set("AI_PROVIDER", "openai")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProductionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "umkm", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/umkm?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
