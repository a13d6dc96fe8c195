package apiclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/denoise-go/denoise-go/internal/report"
	"github.com/denoise-go/denoise-go/internal/schema"
)

// Harness adapts the REST client to the one-shot request/report shape the
// batch runner drives, mirroring the datagram client. Upload selects
// between the reference-by-path and upload-by-content variants.
type Harness struct {
	Client     *Client
	Samplerate int
	Upload     bool
}

// Probe checks that the service answers its banner endpoint.
func (h *Harness) Probe(ctx context.Context) error {
	_, err := h.Client.Root(ctx)
	return err
}

// Denoise runs one denoise request. A missing local input fails fast
// without network I/O. In upload mode the processed file is downloaded
// to outputFile; in path mode the server writes outputFile itself.
func (h *Harness) Denoise(ctx context.Context, inputFile, outputFile string) report.Result {
	if _, err := os.Stat(inputFile); err != nil {
		return report.Failure(report.ClassLocal, "input file does not exist: "+inputFile, 0)
	}

	samplerate := h.Samplerate
	if samplerate == 0 {
		samplerate = schema.DefaultSamplerate
	}

	start := time.Now()

	var (
		resp *schema.DenoiseResponse
		err  error
	)
	if h.Upload {
		resp, err = h.Client.DenoiseUpload(ctx, inputFile, samplerate)
	} else {
		resp, err = h.Client.Denoise(ctx, &schema.DenoiseRequest{
			InputFile:  inputFile,
			OutputFile: outputFile,
			Samplerate: samplerate,
		})
	}
	if err != nil {
		return report.Failure(classify(err), err.Error(), time.Since(start))
	}

	if !resp.Success {
		return report.Failure(report.ClassServer, resp.Message, time.Since(start))
	}

	if h.Upload {
		fileID := filepath.Base(resp.OutputFile)
		if err := h.Client.Download(ctx, fileID, outputFile); err != nil {
			msg := fmt.Sprintf("download of %s failed: %v", fileID, err)
			return report.Failure(classify(err), msg, time.Since(start))
		}
	}

	res := report.Result{
		Success:    true,
		Message:    resp.Message,
		Elapsed:    time.Since(start),
		OutputFile: outputFile,
	}
	if info, err := os.Stat(outputFile); err == nil {
		res.OutputSize = info.Size()
	}
	return res
}

func classify(err error) report.Class {
	switch {
	case errors.Is(err, ErrServerTimeout):
		return report.ClassTimeout
	case errors.Is(err, ErrServerUnavailable):
		return report.ClassTransport
	case IsServerError(err):
		return report.ClassServer
	default:
		return report.ClassTransport
	}
}
