package schema

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultSamplerate is the sample rate the denoising model was trained on.
const DefaultSamplerate = 16000

// supportedExtensions lists the audio formats the service accepts.
var supportedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".m4a":  true,
}

// DenoiseRequest represents a request to denoise a server-local audio file.
type DenoiseRequest struct {
	InputFile  string `json:"input_file" msgpack:"input_file"`
	OutputFile string `json:"output_file,omitempty" msgpack:"output_file,omitempty"`
	Samplerate int    `json:"samplerate" msgpack:"samplerate"`
}

// Validate applies default values and checks the request fields.
func (r *DenoiseRequest) Validate() error {
	r.applyDefaults()

	if r.InputFile == "" {
		return fmt.Errorf("input_file is required")
	}

	if r.Samplerate <= 0 {
		return fmt.Errorf("samplerate must be positive")
	}

	return nil
}

func (r *DenoiseRequest) applyDefaults() {
	if r.Samplerate == 0 {
		r.Samplerate = DefaultSamplerate
	}

	if r.OutputFile == "" && r.InputFile != "" {
		r.OutputFile = DerivedOutputPath(r.InputFile, "_denoised")
	}
}

// DenoiseResponse represents the result of a denoise operation.
type DenoiseResponse struct {
	Success        bool    `json:"success" msgpack:"success"`
	Message        string  `json:"message" msgpack:"message"`
	InputFile      string  `json:"input_file" msgpack:"input_file"`
	OutputFile     string  `json:"output_file" msgpack:"output_file"`
	ProcessingTime float64 `json:"processing_time" msgpack:"processing_time"`
	FileSize       *int64  `json:"file_size,omitempty" msgpack:"file_size,omitempty"`
}

// DerivedOutputPath builds an output path next to the input by inserting
// a suffix before the extension, e.g. clip.wav -> clip_denoised.wav.
func DerivedOutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	return filepath.Join(filepath.Dir(input), stem+suffix+ext)
}

// IsSupportedAudio reports whether the filename has an accepted audio extension.
func IsSupportedAudio(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
