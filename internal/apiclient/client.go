// Package apiclient implements the HTTP client of the denoising service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/schema"
)

// Client talks to the denoising REST API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
}

// New creates a client with connection pooling.
func New(cfg *config.ClientConfig) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		endpoint:   strings.TrimRight(cfg.URL, "/"),
		timeout:    timeout,
	}
}

// Root fetches the service banner. Used as the connectivity probe.
func (c *Client) Root(ctx context.Context) (*schema.RootResponse, error) {
	var result schema.RootResponse
	if err := c.getJSON(ctx, "/", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the service health endpoint.
func (c *Client) Health(ctx context.Context) (*schema.HealthResponse, error) {
	var result schema.HealthResponse
	if err := c.getJSON(ctx, "/health", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ModelInfo returns details about the loaded inference model.
func (c *Client) ModelInfo(ctx context.Context) (*schema.ModelInfoResponse, error) {
	var result schema.ModelInfoResponse
	if err := c.getJSON(ctx, "/models/info", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Denoise submits a reference-by-path request: the input file must exist
// on the server host.
func (c *Client) Denoise(ctx context.Context, req *schema.DenoiseRequest) (*schema.DenoiseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/denoise", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.doDenoise(ctx, httpReq)
}

// DenoiseUpload submits the audio bytes themselves as a multipart upload.
func (c *Client) DenoiseUpload(ctx context.Context, filePath string, samplerate int) (*schema.DenoiseResponse, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := mw.WriteField("samplerate", strconv.Itoa(samplerate)); err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/denoise/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doDenoise(ctx, httpReq)
}

// Download fetches a processed file by id and writes it to savePath,
// creating parent directories.
func (c *Client) Download(ctx context.Context, fileID, savePath string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/download/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.wrapTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.serverError(resp)
	}

	if dir := filepath.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.Create(savePath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return out.Close()
}

func (c *Client) doDenoise(ctx context.Context, httpReq *http.Request) (*schema.DenoiseResponse, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.wrapTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.serverError(resp)
	}

	var result schema.DenoiseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.wrapTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.serverError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) wrapTransportErr(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrServerTimeout, err)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return fmt.Errorf("%w: %v", ErrServerTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
}

func (c *Client) serverError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	detail := string(bodyBytes)
	var errResp schema.ErrorResponse
	if err := json.Unmarshal(bodyBytes, &errResp); err == nil && errResp.Detail != "" {
		detail = errResp.Detail
	}

	return &ServerError{StatusCode: resp.StatusCode, Detail: detail}
}
