// Package denoise defines the interface the harness expects from a
// denoising engine, plus the pass-through engine used by the protocol
// simulator. The real engine (ONNX inference behind the Python service)
// lives outside this repository.
package denoise

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Denoiser processes one audio file into another.
type Denoiser interface {
	Denoise(ctx context.Context, inputFile, outputFile string, samplerate int) error
}

// PassThrough implements Denoiser by copying the input bytes unchanged.
// It exists so the clients and batch runner can be exercised against the
// real wire contract without the inference service. Delay, when set,
// simulates processing time and lets tests drive client timeouts.
type PassThrough struct {
	Delay time.Duration
}

var _ Denoiser = (*PassThrough)(nil)

// Denoise validates the input, waits for the configured delay, and writes
// a byte-for-byte copy to the output path, creating parent directories.
func (p *PassThrough) Denoise(ctx context.Context, inputFile, outputFile string, samplerate int) error {
	in, err := os.Open(inputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputFile)
		}
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write output: %w", err)
	}

	return out.Close()
}
