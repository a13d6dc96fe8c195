package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/denoise-go/denoise-go/internal/fixture"
	"github.com/denoise-go/denoise-go/internal/schema"
)

var (
	dir        string
	name       string
	duration   time.Duration
	samplerate int
	noiseLevel float64
)

var rootCmd = &cobra.Command{
	Use:   "denoise-gen",
	Short: "Generate synthetic WAV test audio for the denoising service",
	Long: `denoise-gen writes synthetic PCM16 mono WAV files: a 440 Hz tone with
harmonics plus configurable Gaussian noise, peak-normalized.

Without --name it writes the standard fixture suite. With --name it writes a
single file shaped by --duration, --samplerate and --noise.

Examples:
  # The standard four-fixture suite under test_audio/
  denoise-gen

  # One custom clip
  denoise-gen --name hiss --duration 8s --noise 0.3`,
	RunE: runGenerate,
}

func init() {
	rootCmd.Flags().StringVar(&dir, "dir", "test_audio", "Output directory")
	rootCmd.Flags().StringVar(&name, "name", "", "Generate a single named fixture instead of the suite")
	rootCmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "Clip duration (single fixture)")
	rootCmd.Flags().IntVar(&samplerate, "samplerate", schema.DefaultSamplerate, "Sample rate (single fixture)")
	rootCmd.Flags().Float64Var(&noiseLevel, "noise", 0.2, "Gaussian noise level (single fixture)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if name != "" {
		if !strings.HasSuffix(name, ".wav") {
			name += ".wav"
		}
		spec := fixture.Spec{
			Name:       name,
			Duration:   duration,
			SampleRate: samplerate,
			NoiseLevel: noiseLevel,
		}
		path := filepath.Join(dir, name)
		if err := fixture.Generate(path, spec); err != nil {
			return fmt.Errorf("generate %s: %w", name, err)
		}
		return describe(path)
	}

	paths, err := fixture.GenerateSuite(dir)
	if err != nil {
		return fmt.Errorf("generate suite: %w", err)
	}
	if len(paths) == 0 {
		return errors.New("no fixtures generated")
	}
	for _, p := range paths {
		if err := describe(p); err != nil {
			return err
		}
	}
	return nil
}

func describe(path string) error {
	rate, frames, err := fixture.Info(path)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	seconds := float64(frames) / float64(rate)
	fmt.Printf("%s: %d Hz, %.1fs, %d bytes\n", path, rate, seconds, st.Size())
	return nil
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
