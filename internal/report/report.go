// Package report holds the transport-independent outcome of a single
// denoise request and the console rendering shared by the CLI tools.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Class categorizes why a request failed.
type Class int

const (
	// ClassNone means the request succeeded.
	ClassNone Class = iota
	// ClassLocal means local validation failed and no network I/O happened.
	ClassLocal
	// ClassTimeout means the configured client timeout expired.
	ClassTimeout
	// ClassTransport covers other transport errors (connection refused, send failure).
	ClassTransport
	// ClassServer means the server reported a failure; Message carries its text verbatim.
	ClassServer
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassLocal:
		return "local"
	case ClassTimeout:
		return "timeout"
	case ClassTransport:
		return "transport"
	case ClassServer:
		return "server"
	default:
		return "unknown"
	}
}

// Result describes the outcome of one denoise request over either transport.
type Result struct {
	Success    bool
	Class      Class
	Message    string
	Elapsed    time.Duration
	OutputFile string
	OutputSize int64
}

// Failure builds a failed Result.
func Failure(class Class, message string, elapsed time.Duration) Result {
	return Result{Success: false, Class: class, Message: message, Elapsed: elapsed}
}

// Print renders the status block shown after each request.
func (r Result) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 30))
	fmt.Fprintln(w, "result:")
	fmt.Fprintln(w, strings.Repeat("=", 30))
	if r.Success {
		fmt.Fprintln(w, "status: success")
	} else {
		fmt.Fprintln(w, "status: failure")
	}
	fmt.Fprintf(w, "message: %s\n", r.Message)
	fmt.Fprintf(w, "elapsed: %.2fs\n", r.Elapsed.Seconds())
	if r.Success && r.OutputFile != "" {
		fmt.Fprintf(w, "output file: %s\n", r.OutputFile)
		fmt.Fprintf(w, "output size: %d bytes\n", r.OutputSize)
	}
}
