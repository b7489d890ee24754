package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personvault.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, "database: /tmp/people.db\ncascade_delete: true\nlog_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/people.db", cfg.Database)
	assert.True(t, cfg.CascadeDelete)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "database: /tmp/people.db\ncascade_delete: true\n")
	t.Setenv("PERSONVAULT_DB", "/var/lib/env.db")
	t.Setenv("PERSONVAULT_CASCADE_DELETE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/env.db", cfg.Database)
	assert.False(t, cfg.CascadeDelete)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "database: [unterminated\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidEnvBool(t *testing.T) {
	t.Setenv("PERSONVAULT_CASCADE_DELETE", "maybe")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{Database: " "}.Validate())
	assert.Error(t, Config{Database: "x.db", LogLevel: "loud"}.Validate())
	assert.NoError(t, Config{Database: "x.db", LogLevel: "WARN"}.Validate())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}
