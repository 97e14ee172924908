package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/finance.db", cfg.Database.Path)
	assert.Equal(t, 24, cfg.JWT.ExpireHours)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 25, cfg.App.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestRead_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9100
  mode: debug
database:
  path: /tmp/x.db
jwt:
  secret: s3cret
  expire_hours: 2
app:
  page_size: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 2, cfg.JWT.ExpireHours)
	assert.Equal(t, 10, cfg.App.PageSize)
	// untouched keys keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
}

func TestRead_EnvOverride(t *testing.T) {
	t.Setenv("ET_SERVER_PORT", "9300")
	t.Setenv("ET_JWT_SECRET", "from-env")

	cfg, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9300, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestRead_ClampsPageSize(t *testing.T) {
	t.Setenv("ET_APP_PAGE_SIZE", "5000")

	cfg, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.App.PageSize)
}

func TestRead_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Read(path)
	assert.Error(t, err)
}
