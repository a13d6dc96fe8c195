package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/denoise-go/denoise-go/internal/schema"
	"github.com/denoise-go/denoise-go/internal/udp"
)

var (
	host       string
	port       int
	inputFile  string
	outputFile string
	timeout    time.Duration
	samplerate int
	testOnly   bool
)

var rootCmd = &cobra.Command{
	Use:   "denoise-udp",
	Short: "Send a denoise request to the audio denoising service over UDP",
	Long: `denoise-udp is the datagram client of the audio denoising service.
It frames a request as <input path>|<output path>, sends it to the server,
and blocks for the completion response.

Examples:
  # Denoise a file (output defaults to <name>_denoised.wav next to it)
  denoise-udp --input test_audio/short_clean.wav

  # Custom server and output
  denoise-udp --host 10.0.0.5 --port 7000 --input in.wav --output out/denoised.wav

  # Only check that the server is reachable
  denoise-udp --test-only --input in.wav`,
	RunE: runDenoise,
}

func init() {
	rootCmd.Flags().StringVar(&host, "host", "localhost", "Server address")
	rootCmd.Flags().IntVar(&port, "port", udp.DefaultPort, "Server port")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input audio file path")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output audio file path (default: <input>_denoised)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Response timeout")
	rootCmd.Flags().IntVar(&samplerate, "samplerate", schema.DefaultSamplerate, "Sample rate the service should assume")
	rootCmd.Flags().BoolVar(&testOnly, "test-only", false, "Only test the connection, do not send a request")

	_ = rootCmd.MarkFlagRequired("input")
}

func runDenoise(cmd *cobra.Command, args []string) error {
	if outputFile == "" {
		outputFile = schema.DerivedOutputPath(inputFile, "_denoised")
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("audio denoise UDP client")
	fmt.Println(strings.Repeat("=", 50))

	client := udp.NewClient(host, port, timeout)

	ctx := context.Background()

	fmt.Printf("testing server connection: %s:%d\n", host, port)
	if err := client.Probe(ctx); err != nil {
		return fmt.Errorf("server connection test failed: %w", err)
	}
	fmt.Println("server connection ok")

	if testOnly {
		return nil
	}

	fmt.Println("sending denoise request...")
	fmt.Printf("input file: %s\n", inputFile)
	fmt.Printf("output file: %s\n", outputFile)
	// The datagram frame carries no sample rate; the service assumes
	// this value. Printed so batch logs show what was requested.
	fmt.Printf("sample rate: %d\n", samplerate)

	res := client.Denoise(ctx, inputFile, outputFile)

	fmt.Println()
	res.Print(os.Stdout)

	if !res.Success {
		return errors.New("denoise failed")
	}

	fmt.Printf("denoise complete, output file: %s\n", outputFile)
	return nil
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
