package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPath(t *testing.T, path string) {
	t.Helper()
	old := configPath
	SetPath(path)
	t.Cleanup(func() { configPath = old })
}

func TestConfigLoad_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	withPath(t, path)

	require.NoError(t, ConfigLoad())
	assert.Equal(t, Default(), ConfigGet())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestConfigLoad_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	withPath(t, path)
	require.NoError(t, os.WriteFile(path, []byte("database_file: notes.db\nquery_strategy: iterative\n"), 0644))
	t.Setenv("NOTATION_DATABASE_DIR", "/tmp/notation")

	require.NoError(t, ConfigLoad())
	cfg := ConfigGet()
	assert.Equal(t, "notes.db", cfg.DatabaseFile)
	assert.Equal(t, "iterative", cfg.QueryStrategy)
	assert.Equal(t, "/tmp/notation", cfg.DatabaseDir)
	// Unset fields keep their defaults.
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "info.log", cfg.InfoLog)
}

func TestValidate_QueryStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{"", false},
		{"recursive", false},
		{"iterative", false},
		{"magic", true},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := Default()
			cfg.QueryStrategy = tt.strategy
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", "{"},
		{"unknown database", `{"database_type": "oracle"}`},
		{"postgres without dsn", `{"database_type": "postgres"}`},
		{"unknown strategy", `{"query_strategy": "magic"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			withPath(t, path)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			assert.Error(t, ConfigLoad())
		})
	}
}
