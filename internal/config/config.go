package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the harness tools and the simulator.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UDP     UDPConfig     `mapstructure:"udp"`
	Client  ClientConfig  `mapstructure:"client"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds HTTP settings for the protocol simulator.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TempDir      string        `mapstructure:"temp_dir"`
}

// UDPConfig holds datagram transport settings.
type UDPConfig struct {
	Listen string `mapstructure:"listen"`
}

// ClientConfig holds settings shared by the denoise clients.
type ClientConfig struct {
	URL        string        `mapstructure:"url"`
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Samplerate int           `mapstructure:"samplerate"`
}

// LimitsConfig holds request limit settings.
type LimitsConfig struct {
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:       "0.0.0.0:8000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second,
			TempDir:      "temp",
		},
		UDP: UDPConfig{
			Listen: "0.0.0.0:7000",
		},
		Client: ClientConfig{
			URL:        "http://localhost:8000",
			Host:       "localhost",
			Port:       7000,
			Timeout:    30 * time.Second,
			Samplerate: 16000,
		},
		Limits: LimitsConfig{
			MaxUploadBytes: 32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load returns a Config populated with defaults and environment overrides.
func Load() (*Config, error) {
	return LoadWithDefaults(nil)
}

// LoadWithDefaults loads configuration using defaults and an optional overrides map (for tests).
func LoadWithDefaults(overrides map[string]interface{}) (*Config, error) {
	cfg := Default()
	applyEnvOverrides(cfg)

	if overrides != nil {
		raw, err := json.Marshal(overrides)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DENOISE_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("DENOISE_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("DENOISE_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("DENOISE_TEMP_DIR"); v != "" {
		cfg.Server.TempDir = v
	}
	if v := os.Getenv("DENOISE_UDP_LISTEN"); v != "" {
		cfg.UDP.Listen = v
	}
	if v := os.Getenv("DENOISE_URL"); v != "" {
		cfg.Client.URL = v
	}
	if v := os.Getenv("DENOISE_HOST"); v != "" {
		cfg.Client.Host = v
	}
	if v := os.Getenv("DENOISE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Client.Port = n
		}
	}
	if v := os.Getenv("DENOISE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Client.Timeout = d
		}
	}
	if v := os.Getenv("DENOISE_SAMPLERATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Client.Samplerate = n
		}
	}
	if v := os.Getenv("DENOISE_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Limits.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("DENOISE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DENOISE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
