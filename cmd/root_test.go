package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	prev := []string{configPath, schemaRoot, cachePath}
	prevWorkers, prevVerbose := workers, verbose
	t.Cleanup(func() {
		configPath, schemaRoot, cachePath = prev[0], prev[1], prev[2]
		workers, verbose = prevWorkers, prevVerbose
	})
	configPath, schemaRoot, cachePath = "", "", ""
	workers, verbose = 0, false
}

func TestLoadConfigDefaults(t *testing.T) {
	resetFlags(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "schemas/ubl-2.1", cfg.SchemaRoot)
	assert.False(t, cfg.EnableLogging)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	resetFlags(t)
	schemaRoot = "/opt/ubl"
	cachePath = "/tmp/desc.db"
	workers = 3
	verbose = true

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/opt/ubl", cfg.SchemaRoot)
	assert.Equal(t, "/tmp/desc.db", cfg.CachePath)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.True(t, cfg.EnableLogging)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadConfigMissingFile(t *testing.T) {
	resetFlags(t)
	configPath = "/definitely/not/here.yaml"

	_, err := loadConfig()
	require.Error(t, err)
}

func TestCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["convert"])
	assert.True(t, names["cache"])
}
