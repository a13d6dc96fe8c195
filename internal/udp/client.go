package udp

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/denoise-go/denoise-go/internal/report"
)

// Client sends denoise requests over the datagram transport. The transport
// is connectionless: one request datagram, one status datagram, no retries.
type Client struct {
	host    string
	port    int
	timeout time.Duration
}

// NewClient creates a client for the given server address.
func NewClient(host string, port int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{host: host, port: port, timeout: timeout}
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.host, fmt.Sprintf("%d", c.port))
}

// Probe checks that the server address is reachable by sending a probe
// datagram. The server may ignore malformed probes, so a read timeout is
// treated as reachable; only a send failure means unreachable.
func (c *Client) Probe(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", c.addr())
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("test|test")); err != nil {
		return fmt.Errorf("probe send failed: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, MaxDatagramSize)
	if _, err := conn.Read(buf); err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return nil
		}
		return fmt.Errorf("probe failed: %w", err)
	}

	return nil
}

// Denoise sends a single denoise request and blocks until the server
// responds or the timeout expires. A missing input file fails fast without
// any network I/O. Parent directories of the output path are created.
func (c *Client) Denoise(ctx context.Context, inputFile, outputFile string) report.Result {
	if _, err := os.Stat(inputFile); err != nil {
		return report.Failure(report.ClassLocal, "input file does not exist: "+inputFile, 0)
	}

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report.Failure(report.ClassLocal, "cannot create output directory: "+err.Error(), 0)
		}
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", c.addr())
	if err != nil {
		return report.Failure(report.ClassTransport, "server unreachable: "+err.Error(), 0)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	start := time.Now()

	if _, err := conn.Write(EncodeRequest(inputFile, outputFile)); err != nil {
		return report.Failure(report.ClassTransport, "send failed: "+err.Error(), time.Since(start))
	}

	buf := make([]byte, MaxDatagramSize)
	n, err := conn.Read(buf)
	elapsed := time.Since(start)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			msg := fmt.Sprintf("request timed out after %s, server may be unresponsive", c.timeout)
			return report.Failure(report.ClassTimeout, msg, elapsed)
		}
		return report.Failure(report.ClassTransport, "receive failed: "+err.Error(), elapsed)
	}

	success, message, err := ParseResponse(buf[:n])
	if err != nil {
		return report.Failure(report.ClassServer, err.Error(), elapsed)
	}
	if !success {
		return report.Failure(report.ClassServer, message, elapsed)
	}

	res := report.Result{
		Success:    true,
		Message:    message,
		Elapsed:    elapsed,
		OutputFile: outputFile,
	}
	if info, err := os.Stat(outputFile); err == nil {
		res.OutputSize = info.Size()
	}
	return res
}
