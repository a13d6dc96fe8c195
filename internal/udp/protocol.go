// Package udp implements the datagram transport of the denoising service:
// a pipe-framed request (input path | output path) answered by a single
// pipe-framed status datagram (error code | message).
package udp

import (
	"fmt"
	"strings"
)

const (
	// DefaultPort is the port the denoising service listens on.
	DefaultPort = 7000

	// MaxDatagramSize bounds request and response datagrams.
	MaxDatagramSize = 64 << 10

	// codeOK is the error code the server sends on success.
	codeOK = "0"
)

// EncodeRequest frames a denoise request datagram.
func EncodeRequest(inputPath, outputPath string) []byte {
	return []byte(inputPath + "|" + outputPath)
}

// ParseRequest splits a request datagram into input and output paths.
func ParseRequest(data []byte) (inputPath, outputPath string, err error) {
	parts := strings.SplitN(string(data), "|", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed request datagram: %q", string(data))
	}
	return parts[0], parts[1], nil
}

// EncodeResponse frames a status datagram.
func EncodeResponse(errCode int, message string) []byte {
	return []byte(fmt.Sprintf("%d|%s", errCode, message))
}

// ParseResponse interprets a status datagram. A code of "0" means success;
// anything else carries the server's failure message.
func ParseResponse(data []byte) (success bool, message string, err error) {
	s := string(data)
	parts := strings.SplitN(s, "|", 2)
	if len(parts) != 2 {
		return false, "", fmt.Errorf("unexpected response format: %q", s)
	}
	return parts[0] == codeOK, parts[1], nil
}
