package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	Bind(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr)
	assert.Equal(t, []string{"http://localhost:3001", "http://127.0.0.1:3001"}, cfg.AllowedOrigins)
	assert.Equal(t, "heuristic", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 256, cfg.MaxStoredGraphs)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 64, cfg.MaxBatchSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AMRVIZ_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("AMRVIZ_MODE", "nested")
	t.Setenv("AMRVIZ_LOG_LEVEL", "DEBUG")
	t.Setenv("AMRVIZ_MAX_STORED_GRAPHS", "3")

	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "nested", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxStoredGraphs)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
		field string
	}{
		{KeyMode, "strict", "Config.Mode"},
		{KeyLogLevel, "loud", "Config.LogLevel"},
		{KeyListenAddr, "nowhere", "Config.ListenAddr"},
		{KeyMaxStoredGraphs, 0, "Config.MaxStoredGraphs"},
		{KeyMaxBatchSize, -1, "Config.MaxBatchSize"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AMRVIZ_TEST_DOTENV_MODE=nested\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("AMRVIZ_TEST_DOTENV_MODE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "nested", os.Getenv("AMRVIZ_TEST_DOTENV_MODE"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, LoadDotEnv(""))
}
