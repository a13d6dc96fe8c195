package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/denoise-go/denoise-go/internal/apiclient"
	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/runner"
	"github.com/denoise-go/denoise-go/internal/schema"
	"github.com/denoise-go/denoise-go/internal/udp"
)

var (
	transport  string
	host       string
	port       int
	serverURL  string
	dir        string
	samplerate int
	upload     bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "denoise-run",
	Short: "Run the batch denoise suite against a live service",
	Long: `denoise-run generates the standard fixture suite and pushes every
fixture through the denoising service, over UDP datagrams or the REST API.

Each case prints a result block; the run ends with a pass/fail summary and a
non-zero exit code if any case failed.

Examples:
  # Datagram transport against a local server
  denoise-run --transport udp --host localhost --port 7000

  # REST transport, uploading file bytes
  denoise-run --transport http --url http://localhost:8000 --upload`,
	RunE: runSuite,
}

func init() {
	rootCmd.Flags().StringVar(&transport, "transport", "udp", "Transport to exercise: udp or http")
	rootCmd.Flags().StringVar(&host, "host", "localhost", "Server host (udp transport)")
	rootCmd.Flags().IntVar(&port, "port", udp.DefaultPort, "Server port (udp transport)")
	rootCmd.Flags().StringVar(&serverURL, "url", "http://localhost:8000", "API server URL (http transport)")
	rootCmd.Flags().StringVar(&dir, "dir", "test_audio", "Fixture directory")
	rootCmd.Flags().IntVar(&samplerate, "samplerate", schema.DefaultSamplerate, "Sample rate (http transport)")
	rootCmd.Flags().BoolVar(&upload, "upload", false, "Upload file bytes instead of referencing paths (http transport)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-request timeout")
}

func buildClient() (runner.DenoiseClient, error) {
	switch transport {
	case "udp":
		return udp.NewClient(host, port, timeout), nil
	case "http":
		client := apiclient.New(&config.ClientConfig{URL: serverURL, Timeout: timeout})
		return &apiclient.Harness{Client: client, Samplerate: samplerate, Upload: upload}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q, expected udp or http", transport)
	}
}

func runSuite(cmd *cobra.Command, args []string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	client, err := buildClient()
	if err != nil {
		return err
	}

	r := runner.New(os.Stdout, logger)
	if err := runner.BuildSuite(r, client, dir); err != nil {
		return err
	}

	summary := r.Run(context.Background())
	if !summary.AllPassed() {
		return fmt.Errorf("%d of %d cases failed", summary.Total-summary.Passed, summary.Total)
	}
	return nil
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
