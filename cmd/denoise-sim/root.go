package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "denoise-sim",
	Short: "Protocol simulator for the audio denoising service",
	Long: `denoise-sim speaks the wire contract of the audio denoising service
(UDP datagrams on port 7000 and the REST API on port 8000) with a
pass-through engine instead of the real model. It exists so the denoise
clients and the batch runner can be exercised without the inference
service.

Start with defaults:
  denoise-sim

Custom addresses:
  denoise-sim --listen 0.0.0.0:8000 --udp-listen 0.0.0.0:7000

Environment variables:
  DENOISE_LISTEN=0.0.0.0:8000 DENOISE_UDP_LISTEN=0.0.0.0:7000 denoise-sim`,
	RunE: runSim,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("denoise-sim %s\n", Version)
		fmt.Printf("  Commit:     %s\n", Commit)
		fmt.Printf("  Build Date: %s\n", BuildDate)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.Flags().String("listen", "0.0.0.0:8000", "HTTP listen address")
	rootCmd.Flags().String("udp-listen", "0.0.0.0:7000", "UDP listen address")
	rootCmd.Flags().Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	rootCmd.Flags().Duration("write-timeout", 300*time.Second, "HTTP write timeout")
	rootCmd.Flags().String("temp-dir", "temp", "Staging directory for uploads")
	rootCmd.Flags().Duration("delay", 0, "Artificial processing delay per request")

	rootCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.Flags().String("log-format", "json", "Log format (json, text)")

	bindFlags()

	rootCmd.AddCommand(versionCmd)
}

func bindFlags() {
	bindings := []struct {
		key  string
		flag string
	}{
		{"server.listen", "listen"},
		{"server.read_timeout", "read-timeout"},
		{"server.write_timeout", "write-timeout"},
		{"server.temp_dir", "temp-dir"},
		{"udp.listen", "udp-listen"},
		{"logging.level", "log-level"},
		{"logging.format", "log-format"},
	}

	for _, b := range bindings {
		flag := rootCmd.Flags().Lookup(b.flag)
		if flag == nil {
			continue
		}
		_ = viper.BindPFlag(b.key, flag)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DENOISE")
	viper.AutomaticEnv()

	viper.BindEnv("server.listen", "DENOISE_LISTEN")
	viper.BindEnv("server.temp_dir", "DENOISE_TEMP_DIR")
	viper.BindEnv("udp.listen", "DENOISE_UDP_LISTEN")
	viper.BindEnv("logging.level", "DENOISE_LOG_LEVEL")
	viper.BindEnv("logging.format", "DENOISE_LOG_FORMAT")

	viper.SetDefault("server.listen", "0.0.0.0:8000")
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 300*time.Second)
	viper.SetDefault("server.temp_dir", "temp")
	viper.SetDefault("udp.listen", "0.0.0.0:7000")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	bindFlags()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
