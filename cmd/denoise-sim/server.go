package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denoise-go/denoise-go/internal/api"
	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/denoise"
	"github.com/denoise-go/denoise-go/internal/udp"
)

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("listen", cfg.Server.Listen).
		Str("udp_listen", cfg.UDP.Listen).
		Str("temp_dir", cfg.Server.TempDir).
		Msg("Starting denoise protocol simulator")

	store, err := denoise.NewFileStore(cfg.Server.TempDir)
	if err != nil {
		return fmt.Errorf("failed to prepare temp dir: %w", err)
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	den := &denoise.PassThrough{Delay: delay}

	router := api.NewRouter(cfg, den, store, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	udpSrv, err := udp.NewServer(cfg.UDP.Listen, den, logger)
	if err != nil {
		return fmt.Errorf("failed to bind UDP listener: %w", err)
	}

	udpCtx, udpCancel := context.WithCancel(context.Background())
	defer udpCancel()

	serverErr := make(chan error, 2)

	go func() {
		logger.Info().Str("addr", cfg.Server.Listen).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	go func() {
		logger.Info().Stringer("addr", udpSrv.Addr()).Msg("UDP server listening")
		if err := udpSrv.Serve(udpCtx); err != nil {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down...")
	}

	udpCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info().Msg("Simulator stopped")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	defaults := config.Default()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Listen:       viper.GetString("server.listen"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
			TempDir:      viper.GetString("server.temp_dir"),
		},
		UDP: config.UDPConfig{
			Listen: viper.GetString("udp.listen"),
		},
		Client: defaults.Client,
		Limits: defaults.Limits,
		Logging: config.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
	}

	if env := os.Getenv("DENOISE_LISTEN"); env != "" {
		cfg.Server.Listen = env
	}
	if env := os.Getenv("DENOISE_READ_TIMEOUT"); env != "" {
		if d, err := time.ParseDuration(env); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if env := os.Getenv("DENOISE_WRITE_TIMEOUT"); env != "" {
		if d, err := time.ParseDuration(env); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if env := os.Getenv("DENOISE_TEMP_DIR"); env != "" {
		cfg.Server.TempDir = env
	}
	if env := os.Getenv("DENOISE_UDP_LISTEN"); env != "" {
		cfg.UDP.Listen = env
	}
	if env := os.Getenv("DENOISE_LOG_LEVEL"); env != "" {
		cfg.Logging.Level = env
	}
	if env := os.Getenv("DENOISE_LOG_FORMAT"); env != "" {
		cfg.Logging.Format = env
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if cfg.Server.TempDir == "" {
		cfg.Server.TempDir = defaults.Server.TempDir
	}
	if cfg.UDP.Listen == "" {
		cfg.UDP.Listen = defaults.UDP.Listen
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}

	if cmd != nil {
		if flag := cmd.Flags().Lookup("listen"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetString("listen"); err == nil && v != "" {
				cfg.Server.Listen = v
			}
		}
		if flag := cmd.Flags().Lookup("udp-listen"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetString("udp-listen"); err == nil && v != "" {
				cfg.UDP.Listen = v
			}
		}
		if flag := cmd.Flags().Lookup("read-timeout"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetDuration("read-timeout"); err == nil && v != 0 {
				cfg.Server.ReadTimeout = v
			}
		}
		if flag := cmd.Flags().Lookup("write-timeout"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetDuration("write-timeout"); err == nil && v != 0 {
				cfg.Server.WriteTimeout = v
			}
		}
		if flag := cmd.Flags().Lookup("temp-dir"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetString("temp-dir"); err == nil && v != "" {
				cfg.Server.TempDir = v
			}
		}
		if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetString("log-level"); err == nil && v != "" {
				cfg.Logging.Level = v
			}
		}
		if flag := cmd.Flags().Lookup("log-format"); flag != nil && flag.Changed {
			if v, err := cmd.Flags().GetString("log-format"); err == nil && v != "" {
				cfg.Logging.Format = v
			}
		}
	}

	return cfg, nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
