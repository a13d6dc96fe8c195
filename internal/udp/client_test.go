package udp

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denoise-go/denoise-go/internal/denoise"
	"github.com/denoise-go/denoise-go/internal/report"
)

func startTestServer(t *testing.T, den denoise.Denoiser) (host string, port int) {
	t.Helper()

	srv, err := NewServer("127.0.0.1:0", den, zerolog.New(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = srv.Serve(ctx) }()

	h, p, err := net.SplitHostPort(srv.Addr().String())
	require.NoError(t, err)
	port, err = strconv.Atoi(p)
	require.NoError(t, err)

	return h, port
}

func writeTestInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("fake audio data"), 0o644))
	return path
}

func TestDenoise_Success(t *testing.T) {
	host, port := startTestServer(t, &denoise.PassThrough{})
	client := NewClient(host, port, 5*time.Second)

	input := writeTestInput(t)
	output := filepath.Join(filepath.Dir(input), "clip_denoised.wav")

	res := client.Denoise(context.Background(), input, output)

	require.True(t, res.Success, "message: %s", res.Message)
	assert.Equal(t, report.ClassNone, res.Class)
	assert.Equal(t, "success", res.Message)
	assert.Equal(t, output, res.OutputFile)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, info.Size(), res.OutputSize)
}

func TestDenoise_CreatesOutputDirectory(t *testing.T) {
	host, port := startTestServer(t, &denoise.PassThrough{})
	client := NewClient(host, port, 5*time.Second)

	input := writeTestInput(t)
	output := filepath.Join(t.TempDir(), "nested", "dir", "out.wav")

	res := client.Denoise(context.Background(), input, output)

	require.True(t, res.Success, "message: %s", res.Message)
	_, err := os.Stat(output)
	require.NoError(t, err)
}

func TestDenoise_MissingInputFailsFast(t *testing.T) {
	// Port with no listener: a network attempt would surface as a
	// transport failure, not a local one.
	client := NewClient("127.0.0.1", 1, 5*time.Second)

	start := time.Now()
	res := client.Denoise(context.Background(), "nonexistent.wav", "out.wav")
	elapsed := time.Since(start)

	require.False(t, res.Success)
	assert.Equal(t, report.ClassLocal, res.Class)
	assert.Contains(t, res.Message, "nonexistent.wav")
	assert.Equal(t, time.Duration(0), res.Elapsed)
	assert.Less(t, elapsed, time.Second)
}

func TestDenoise_Timeout(t *testing.T) {
	// A listener that never responds.
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	_, p, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	port, _ := strconv.Atoi(p)

	client := NewClient("127.0.0.1", port, 200*time.Millisecond)

	input := writeTestInput(t)
	res := client.Denoise(context.Background(), input, filepath.Join(t.TempDir(), "out.wav"))

	require.False(t, res.Success)
	assert.Equal(t, report.ClassTimeout, res.Class)
	assert.Contains(t, res.Message, "timed out")
	assert.GreaterOrEqual(t, res.Elapsed, 200*time.Millisecond)
}

type failingDenoiser struct{ msg string }

func (f *failingDenoiser) Denoise(ctx context.Context, inputFile, outputFile string, samplerate int) error {
	return errors.New(f.msg)
}

func TestDenoise_ServerFailurePassedThrough(t *testing.T) {
	host, port := startTestServer(t, &failingDenoiser{msg: "model not initialized"})
	client := NewClient(host, port, 5*time.Second)

	input := writeTestInput(t)
	res := client.Denoise(context.Background(), input, filepath.Join(t.TempDir(), "out.wav"))

	require.False(t, res.Success)
	assert.Equal(t, report.ClassServer, res.Class)
	assert.Equal(t, "model not initialized", res.Message)
}

func TestDenoise_MalformedResponse(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	go func() {
		buf := make([]byte, MaxDatagramSize)
		n, addr, err := conn.ReadFrom(buf)
		if err != nil || n == 0 {
			return
		}
		_, _ = conn.WriteTo([]byte("garbage"), addr)
	}()

	_, p, _ := net.SplitHostPort(conn.LocalAddr().String())
	port, _ := strconv.Atoi(p)
	client := NewClient("127.0.0.1", port, 2*time.Second)

	input := writeTestInput(t)
	res := client.Denoise(context.Background(), input, filepath.Join(t.TempDir(), "out.wav"))

	require.False(t, res.Success)
	assert.Equal(t, report.ClassServer, res.Class)
	assert.Contains(t, res.Message, "unexpected response format")
}

func TestProbe_Reachable(t *testing.T) {
	host, port := startTestServer(t, &denoise.PassThrough{})
	client := NewClient(host, port, 5*time.Second)

	require.NoError(t, client.Probe(context.Background()))
}

func TestProbe_SilentServerStillReachable(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	_, p, _ := net.SplitHostPort(conn.LocalAddr().String())
	port, _ := strconv.Atoi(p)
	client := NewClient("127.0.0.1", port, time.Second)

	// The real server ignores malformed probes; the probe treats a read
	// timeout as reachable.
	require.NoError(t, client.Probe(context.Background()))
}
