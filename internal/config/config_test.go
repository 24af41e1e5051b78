package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdleTimeout)
	assert.Equal(t, "en", cfg.Format.Locale)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	t.Setenv(EnvAddr, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(EnvAddr, "")
	path := filepath.Join(t.TempDir(), "statement-ledger.yaml")

	cfg := Default()
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Format.Locale = "en-IN"
	cfg.Log.Pretty = true
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvAddr, "")
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\nserver:\n  session_idle_timeout: 5m\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Minute, cfg.Server.SessionIdleTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 32, cfg.Server.BodyLimitMB)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvAddr, ":9999")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvAddr, "")
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("server:\n  body_limit_mb: 0\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "body_limit_mb")
}

func TestValidate_Locale(t *testing.T) {
	tests := []struct {
		locale  string
		wantErr bool
	}{
		{"en", false},
		{"en-IN", false},
		{"", false},
		{"de", true},
		{"fr", true},
		{"not a locale!", true},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			cfg := Default()
			cfg.Format.Locale = tt.locale
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "format.locale")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
