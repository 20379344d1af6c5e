package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "garmin.com", cfg.Domain)
	assert.Equal(t, ".garminconnect", cfg.TokenDir)
	assert.Equal(t, "garmin.db", cfg.DatabasePath)
	assert.Equal(t, "downloads", cfg.DownloadDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.PageSize)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	setEnvs(t, map[string]string{
		"GARMIN_USERNAME":      "runner@example.com",
		"GARMIN_PASSWORD":      "hunter2",
		"GARMIN_DOMAIN":        "garmin.cn",
		"GARMIN_DATABASE_PATH": "/tmp/sync.db",
		"GARMIN_LOG_LEVEL":     "debug",
		"GARMIN_TIMEOUT":       "5s",
	})

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "runner@example.com", cfg.GarminUsername)
	assert.Equal(t, "hunter2", cfg.GarminPassword)
	assert.Equal(t, "garmin.cn", cfg.Domain)
	assert.Equal(t, "/tmp/sync.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.RequireCredentials())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown domain":    {"GARMIN_DOMAIN": "garmin.org"},
		"unknown log level": {"GARMIN_LOG_LEVEL": "verbose"},
		"bad timeout":       {"GARMIN_TIMEOUT": "soon"},
		"page size":         {"GARMIN_PAGE_SIZE": "0"},
	}
	for name, envs := range tests {
		t.Run(name, func(t *testing.T) {
			setEnvs(t, envs)

			cfg, err := LoadConfig()

			assert.Nil(t, cfg)
			assert.Error(t, err)
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := &Config{GarminUsername: "only-user"}
	assert.Error(t, cfg.RequireCredentials())
}
