package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "LOAN_MAX_DAYS", "JWT_TTL_HOURS", "HTTP_READ_TIMEOUT", "APP_ENV", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load(false)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.LoanMaxDays)
	assert.Equal(t, 24, cfg.JWTTTLHours)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.False(t, cfg.IsProd())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LOAN_MAX_DAYS", "21")
	t.Setenv("HTTP_WRITE_TIMEOUT", "30s")
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("DATABASE_URL", "postgres://localhost/library")

	cfg := Load(true)
	assert.Equal(t, 21, cfg.LoanMaxDays)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "postgres://localhost/library", cfg.DatabaseURL)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.Panics(t, func() { Load(true) })
}
