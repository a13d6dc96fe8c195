package main

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	viper.Reset()
	initConfig()

	cfg, err := loadConfig(rootCmd)
	assert.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Listen)
	assert.Equal(t, "0.0.0.0:7000", cfg.UDP.Listen)
	assert.Equal(t, "temp", cfg.Server.TempDir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfigFromEnv(t *testing.T) {
	viper.Reset()
	os.Setenv("DENOISE_LISTEN", "0.0.0.0:9090")
	os.Setenv("DENOISE_UDP_LISTEN", "0.0.0.0:9700")
	os.Setenv("DENOISE_TEMP_DIR", "/tmp/staging")
	os.Setenv("DENOISE_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("DENOISE_LISTEN")
		os.Unsetenv("DENOISE_UDP_LISTEN")
		os.Unsetenv("DENOISE_TEMP_DIR")
		os.Unsetenv("DENOISE_LOG_LEVEL")
	}()

	initConfig()

	cfg, err := loadConfig(rootCmd)
	assert.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Listen)
	assert.Equal(t, "0.0.0.0:9700", cfg.UDP.Listen)
	assert.Equal(t, "/tmp/staging", cfg.Server.TempDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
