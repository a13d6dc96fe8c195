//go:build integration
// +build integration

// Integration tests require a running denoise server (denoise-sim or the
// real service).
// Run with: go test -tags=integration ./tests/integration/...
//
// Environment variables:
//   DENOISE_SERVER_URL - HTTP API URL (default: http://localhost:8000)
//   DENOISE_UDP_ADDR   - datagram address (default: localhost:7000)

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denoise-go/denoise-go/internal/apiclient"
	"github.com/denoise-go/denoise-go/internal/config"
	"github.com/denoise-go/denoise-go/internal/fixture"
	"github.com/denoise-go/denoise-go/internal/report"
	"github.com/denoise-go/denoise-go/internal/schema"
	"github.com/denoise-go/denoise-go/internal/udp"
)

var (
	serverURL  string
	udpAddr    string
	httpClient *http.Client
)

func TestMain(m *testing.M) {
	serverURL = os.Getenv("DENOISE_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8000"
	}

	udpAddr = os.Getenv("DENOISE_UDP_ADDR")
	if udpAddr == "" {
		udpAddr = "localhost:7000"
	}

	httpClient = &http.Client{
		Timeout: 120 * time.Second,
	}

	if !waitForServer(serverURL, 30*time.Second) {
		fmt.Fprintf(os.Stderr, "Server at %s not ready\n", serverURL)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func waitForServer(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return true
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(1 * time.Second)
	}
	return false
}

func udpHostPort(t *testing.T) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(udpAddr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func makeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	err := fixture.Generate(path, fixture.Spec{
		Name:       "clip.wav",
		Duration:   2 * time.Second,
		SampleRate: schema.DefaultSamplerate,
		NoiseLevel: 0.2,
	})
	require.NoError(t, err)
	return path
}

// =============================================================================
// Service Endpoint Tests
// =============================================================================

func TestHealth(t *testing.T) {
	resp, err := httpClient.Get(serverURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health schema.HealthResponse
	err = json.NewDecoder(resp.Body).Decode(&health)
	require.NoError(t, err)

	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ModelLoaded)
}

func TestRootBanner(t *testing.T) {
	resp, err := httpClient.Get(serverURL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var root schema.RootResponse
	err = json.NewDecoder(resp.Body).Decode(&root)
	require.NoError(t, err)
	assert.NotEmpty(t, root.Message)
}

func TestModelInfo(t *testing.T) {
	resp, err := httpClient.Get(serverURL + "/models/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var info schema.ModelInfoResponse
	err = json.NewDecoder(resp.Body).Decode(&info)
	require.NoError(t, err)
	assert.NotEmpty(t, info.InputNames)
}

// =============================================================================
// HTTP Denoise Tests
// =============================================================================

func TestDenoiseUploadRoundTrip(t *testing.T) {
	input := makeFixture(t)
	output := filepath.Join(t.TempDir(), "denoised.wav")

	client := apiclient.New(&config.ClientConfig{URL: serverURL, Timeout: 60 * time.Second})
	h := &apiclient.Harness{Client: client, Samplerate: schema.DefaultSamplerate, Upload: true}

	res := h.Denoise(context.Background(), input, output)
	require.True(t, res.Success, "denoise failed: %s", res.Message)

	audio, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, len(audio) > 44, "Output should be longer than WAV header")
	assert.Equal(t, "RIFF", string(audio[0:4]))
	assert.Equal(t, "WAVE", string(audio[8:12]))

	t.Logf("Denoised %d bytes in %.2fs", len(audio), res.Elapsed.Seconds())
}

func TestDenoiseMissingInputDetail(t *testing.T) {
	reqBody := schema.DenoiseRequest{
		InputFile:  "/nonexistent/ghost.wav",
		Samplerate: schema.DefaultSamplerate,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := httpClient.Post(
		serverURL+"/denoise",
		"application/json",
		bytes.NewReader(body),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp schema.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	assert.Contains(t, errResp.Detail, "/nonexistent/ghost.wav")
}

func TestDenoiseUnsupportedContentType(t *testing.T) {
	resp, err := httpClient.Post(
		serverURL+"/denoise",
		"text/plain",
		bytes.NewReader([]byte("hello")),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestDownloadUnknownFile(t *testing.T) {
	resp, err := httpClient.Get(serverURL + "/download/no_such_file.wav")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// UDP Denoise Tests
// =============================================================================

func TestUDPProbe(t *testing.T) {
	host, port := udpHostPort(t)
	client := udp.NewClient(host, port, 10*time.Second)

	err := client.Probe(context.Background())
	require.NoError(t, err)
}

func TestUDPDenoise(t *testing.T) {
	host, port := udpHostPort(t)
	client := udp.NewClient(host, port, 30*time.Second)

	input := makeFixture(t)
	output := schema.DerivedOutputPath(input, "_denoised")

	res := client.Denoise(context.Background(), input, output)
	require.True(t, res.Success, "denoise failed: %s", res.Message)
	assert.Equal(t, report.ClassNone, res.Class)

	rate, frames, err := fixture.Info(output)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultSamplerate, rate)
	assert.True(t, frames > 0)
}

func TestUDPMissingInputFailsFast(t *testing.T) {
	host, port := udpHostPort(t)
	client := udp.NewClient(host, port, 10*time.Second)

	res := client.Denoise(context.Background(), "/nonexistent/ghost.wav", "/tmp/out.wav")
	assert.False(t, res.Success)
	assert.Equal(t, report.ClassLocal, res.Class)
	assert.Contains(t, res.Message, "/nonexistent/ghost.wav")
}

// =============================================================================
// Performance Tests
// =============================================================================

func TestPerformanceDenoiseLatency(t *testing.T) {
	input := makeFixture(t)
	output := filepath.Join(t.TempDir(), "denoised.wav")

	client := apiclient.New(&config.ClientConfig{URL: serverURL, Timeout: 60 * time.Second})
	h := &apiclient.Harness{Client: client, Samplerate: schema.DefaultSamplerate, Upload: true}

	start := time.Now()
	res := h.Denoise(context.Background(), input, output)
	elapsed := time.Since(start)

	require.True(t, res.Success, "denoise failed: %s", res.Message)
	t.Logf("Denoise request completed in %v", elapsed)

	assert.Less(t, elapsed, 30*time.Second, "Denoise should complete within 30 seconds")
}
