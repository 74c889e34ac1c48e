package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/auth.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Password.MinLength)
	assert.Equal(t, 32, cfg.Token.Length)
	assert.Equal(t, 0, cfg.Token.TTLMinutes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("AUTH_PASSWORD_MINLENGTH", "12")
	t.Setenv("AUTH_TOKEN_TTLMINUTES", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 12, cfg.Password.MinLength)
	assert.Equal(t, 60, cfg.Token.TTLMinutes)
}

func TestLoadRejectsNonPositiveMinLength(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_PASSWORD_MINLENGTH", "0")

	_, err := Load()
	assert.Error(t, err)
}
