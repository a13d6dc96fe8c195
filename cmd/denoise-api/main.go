package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/denoise-go/denoise-go/internal/apiclient"
	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/schema"
)

var (
	serverURL  string
	inputFile  string
	outputFile string
	upload     bool
	samplerate int
	timeout    time.Duration
	testOnly   bool
)

var rootCmd = &cobra.Command{
	Use:   "denoise-api",
	Short: "Send a denoise request to the audio denoising service over HTTP",
	Long: `denoise-api is the REST client of the audio denoising service.

Two request variants are supported: reference-by-path, where the input file
must be visible to the server, and upload mode, where the audio bytes are
sent in the request and the processed file is downloaded back.

Examples:
  # Reference-by-path (client and server share a filesystem)
  denoise-api --input test_audio/short_clean.wav

  # Upload the bytes and download the result
  denoise-api --upload --input in.wav --output out/denoised.wav

  # Inspect the service without denoising
  denoise-api --test-only`,
	RunE: runDenoise,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "url", "http://localhost:8000", "API server URL")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input audio file path")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output audio file path (default: <input>_api_denoised)")
	rootCmd.Flags().BoolVar(&upload, "upload", false, "Upload the file bytes instead of referencing a server path")
	rootCmd.Flags().IntVar(&samplerate, "samplerate", schema.DefaultSamplerate, "Sample rate")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 300*time.Second, "Request timeout")
	rootCmd.Flags().BoolVar(&testOnly, "test-only", false, "Only test the connection and print service info")
}

func runDenoise(cmd *cobra.Command, args []string) error {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("audio denoise API client")
	fmt.Println(strings.Repeat("=", 60))

	client := apiclient.New(&config.ClientConfig{URL: serverURL, Timeout: timeout})

	ctx := context.Background()

	fmt.Printf("testing server connection: %s\n", serverURL)
	banner, err := client.Root(ctx)
	if err != nil {
		return fmt.Errorf("server connection test failed: %w", err)
	}
	fmt.Printf("server response: %s\n", banner.Message)

	if testOnly {
		return printServiceInfo(ctx, client)
	}

	if inputFile == "" {
		return errors.New("input file is required (--input)")
	}

	if outputFile == "" {
		outputFile = schema.DerivedOutputPath(inputFile, "_api_denoised")
	}

	mode := "path"
	if upload {
		mode = "upload"
	}
	fmt.Printf("\ninput file: %s\n", inputFile)
	fmt.Printf("output file: %s\n", outputFile)
	fmt.Printf("sample rate: %d\n", samplerate)
	fmt.Printf("mode: %s\n", mode)

	h := &apiclient.Harness{Client: client, Samplerate: samplerate, Upload: upload}
	res := h.Denoise(ctx, inputFile, outputFile)

	fmt.Println()
	res.Print(os.Stdout)

	if !res.Success {
		return errors.New("denoise failed")
	}

	return nil
}

func printServiceInfo(ctx context.Context, client *apiclient.Client) error {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 30))
	fmt.Println("service info:")
	fmt.Println(strings.Repeat("=", 30))

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Printf("health: %s (model loaded: %t, uptime: %.0fs)\n", health.Status, health.ModelLoaded, health.Uptime)

	info, err := client.ModelInfo(ctx)
	if err != nil {
		return fmt.Errorf("model info failed: %w", err)
	}
	fmt.Printf("providers: %s\n", strings.Join(info.Providers, ", "))
	fmt.Printf("model inputs: %s\n", strings.Join(info.InputNames, ", "))
	fmt.Printf("model outputs: %s\n", strings.Join(info.OutputNames, ", "))

	return nil
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
