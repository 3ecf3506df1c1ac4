package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "127.0.0.1", config.API.Bind)
	assert.Equal(t, 8080, config.API.Port)
	assert.Equal(t, "auto", config.API.APIKey)
	assert.Equal(t, "localhost", config.Source.Host)
	assert.Equal(t, 5432, config.Source.Port)
	assert.Equal(t, "pebble", config.Sink.Kind)
	assert.Equal(t, "./data", config.Sink.Dir)
	assert.Equal(t, "proto", config.Sink.Encoder)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestSourceDSN(t *testing.T) {
	source := Source{
		Host:     "db.internal",
		Port:     5433,
		Name:     "orders",
		Username: "replicator",
	}
	assert.Equal(t, "host=db.internal port=5433 dbname=orders user=replicator", source.DSN())

	source.Password = "hunter2"
	assert.Equal(t, "host=db.internal port=5433 dbname=orders user=replicator password=hunter2", source.DSN())
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		// Verify it's valid hex
		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			API: API{
				Bind:   "0.0.0.0",
				Port:   9000,
				APIKey: "test-api-key",
			},
			Source: Source{
				Host:     "db.internal",
				Port:     5432,
				Name:     "app",
				Username: "replicator",
				Password: "secret",
			},
			Sink: Sink{
				Kind:    "pebble",
				Dir:     "/custom/data",
				Encoder: "proto",
			},
			Logging: Logging{
				Level: "debug",
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("api: ["), 0600))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
	})
}

func TestSaveConfig_Permissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "config may carry credentials")
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	bootstrapped, err := BootstrapConfig(configPath, "/tmp/replica-data")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/replica-data", bootstrapped.Sink.Dir)
	assert.Len(t, bootstrapped.API.APIKey, 64)
	assert.True(t, ConfigExists(configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, bootstrapped.API.APIKey, loaded.API.APIKey)
}
