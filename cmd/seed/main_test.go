package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGO_DATABASE", "")
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("MONGO_DATABASE")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "safetyapp", cfg.MongoDatabase)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	os.Unsetenv("MONGO_URI")
	t.Setenv("MONGO_DATABASE", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_URI=mongodb://seed-host:27017\nMONGO_DATABASE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MONGO_URI") })

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://seed-host:27017", cfg.MongoURI)
	// godotenv never overrides variables that are already set.
	assert.Equal(t, "from-env", cfg.MongoDatabase)
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--drop", "--env-file", "x.env"}))

	drop, err := cmd.Flags().GetBool("drop")
	require.NoError(t, err)
	assert.True(t, drop)
	envFile, err := cmd.Flags().GetString("env-file")
	require.NoError(t, err)
	assert.Equal(t, "x.env", envFile)
}
