// Package fixture synthesizes WAV test audio for exercising the denoise
// clients: a 440 Hz fundamental with two harmonics, buried in Gaussian
// noise at a configurable level.
package fixture

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	fundamentalHz = 440.0
	peakLevel     = 0.8
	bitDepth      = 16
)

// Spec describes one synthetic audio file.
type Spec struct {
	Name       string
	Duration   time.Duration
	SampleRate int
	NoiseLevel float64
}

// DefaultSuite returns the standard fixture set used by the batch runner.
func DefaultSuite() []Spec {
	return []Spec{
		{Name: "short_clean.wav", Duration: 2 * time.Second, SampleRate: 16000, NoiseLevel: 0.05},
		{Name: "medium_noisy.wav", Duration: 5 * time.Second, SampleRate: 16000, NoiseLevel: 0.2},
		{Name: "long_very_noisy.wav", Duration: 10 * time.Second, SampleRate: 16000, NoiseLevel: 0.4},
		{Name: "high_freq.wav", Duration: 3 * time.Second, SampleRate: 16000, NoiseLevel: 0.15},
	}
}

// Generate writes the synthetic WAV file described by spec to path,
// creating parent directories.
func Generate(path string, spec Spec) error {
	if spec.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive")
	}
	if spec.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	n := int(float64(spec.SampleRate) * spec.Duration.Seconds())
	samples := make([]float64, n)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	peak := 0.0
	for i := range samples {
		t := float64(i) / float64(spec.SampleRate)

		v := math.Sin(2 * math.Pi * fundamentalHz * t)
		v += 0.5 * math.Sin(2*math.Pi*2*fundamentalHz*t)
		v += 0.3 * math.Sin(2*math.Pi*3*fundamentalHz*t)
		v += rng.NormFloat64() * spec.NoiseLevel

		samples[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	// Normalize so the noisiest fixture still leaves headroom.
	if peak > 0 {
		scale := peakLevel / peak
		for i := range samples {
			samples[i] *= scale
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fixture directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fixture: %w", err)
	}

	enc := wav.NewEncoder(f, spec.SampleRate, bitDepth, 1, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: spec.SampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, n),
	}
	for i, v := range samples {
		buf.Data[i] = int(v * math.MaxInt16)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("encode fixture: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize fixture: %w", err)
	}

	return f.Close()
}

// GenerateSuite writes the default fixture set into dir and returns the
// generated paths.
func GenerateSuite(dir string) ([]string, error) {
	paths := make([]string, 0, len(DefaultSuite()))

	for _, spec := range DefaultSuite() {
		path := filepath.Join(dir, spec.Name)
		if err := Generate(path, spec); err != nil {
			return nil, fmt.Errorf("generate %s: %w", spec.Name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// Info reads back a WAV file's sample rate and frame count. Used to verify
// generated fixtures and denoised outputs.
func Info(path string) (sampleRate int, frames int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if dec.Err() != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, dec.Err())
	}

	return int(dec.SampleRate), len(buf.Data), nil
}
