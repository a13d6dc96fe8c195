// Package runner drives the denoise clients across generated fixtures and
// aggregates pass/fail. Cases execute sequentially; a failing case does
// not stop the run.
package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/denoise-go/denoise-go/internal/fixture"
	"github.com/denoise-go/denoise-go/internal/report"
	"github.com/denoise-go/denoise-go/internal/schema"
)

// DenoiseClient is the transport-independent operation both the datagram
// and the HTTP client provide.
type DenoiseClient interface {
	Probe(ctx context.Context) error
	Denoise(ctx context.Context, inputFile, outputFile string) report.Result
}

// Case is one named step of a run.
type Case struct {
	Name string
	Run  func(ctx context.Context) report.Result
}

// Summary aggregates a full run.
type Summary struct {
	Passed   int
	Total    int
	Failures []string
}

// AllPassed reports whether every case succeeded.
func (s Summary) AllPassed() bool {
	return s.Passed == s.Total
}

// Runner executes cases in order and prints per-case results plus a
// summary table.
type Runner struct {
	out    io.Writer
	logger zerolog.Logger
	cases  []Case
}

// New creates an empty runner writing console output to out.
func New(out io.Writer, logger zerolog.Logger) *Runner {
	return &Runner{out: out, logger: logger}
}

// Add appends a case.
func (r *Runner) Add(name string, run func(ctx context.Context) report.Result) {
	r.cases = append(r.cases, Case{Name: name, Run: run})
}

// Run executes all cases sequentially.
func (r *Runner) Run(ctx context.Context) Summary {
	summary := Summary{Total: len(r.cases)}

	for _, c := range r.cases {
		fmt.Fprintln(r.out, strings.Repeat("=", 50))
		fmt.Fprintf(r.out, "running: %s\n", c.Name)
		fmt.Fprintln(r.out, strings.Repeat("=", 50))

		res := c.Run(ctx)
		res.Print(r.out)

		if res.Success {
			summary.Passed++
		} else {
			summary.Failures = append(summary.Failures, c.Name)
			r.logger.Warn().Str("case", c.Name).Str("message", res.Message).Msg("Case failed")
		}
	}

	r.printSummary(summary)
	return summary
}

func (r *Runner) printSummary(s Summary) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintln(r.out, "test summary")
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	for _, name := range r.caseNames() {
		status := "PASS"
		for _, f := range s.Failures {
			if f == name {
				status = "FAIL"
				break
			}
		}
		fmt.Fprintf(r.out, "%-40s %s\n", name, status)
	}
	fmt.Fprintln(r.out, strings.Repeat("-", 60))
	fmt.Fprintf(r.out, "total: %d/%d passed\n", s.Passed, s.Total)
}

func (r *Runner) caseNames() []string {
	names := make([]string, len(r.cases))
	for i, c := range r.cases {
		names[i] = c.Name
	}
	return names
}

// BuildSuite generates the default fixtures into dir and registers the
// standard cases against the given client: a connectivity probe, one
// denoise per fixture, and a custom-output-path case.
func BuildSuite(r *Runner, client DenoiseClient, dir string) error {
	paths, err := fixture.GenerateSuite(dir)
	if err != nil {
		return fmt.Errorf("generate fixtures: %w", err)
	}

	r.Add("probe connection", func(ctx context.Context) report.Result {
		if err := client.Probe(ctx); err != nil {
			return report.Failure(report.ClassTransport, err.Error(), 0)
		}
		return report.Result{Success: true, Message: "server reachable"}
	})

	for _, path := range paths {
		p := path
		name := fmt.Sprintf("denoise %s", filepath.Base(p))
		r.Add(name, func(ctx context.Context) report.Result {
			return client.Denoise(ctx, p, schema.DerivedOutputPath(p, "_denoised"))
		})
	}

	custom := filepath.Join(dir, "output", "custom_denoised.wav")
	last := paths[len(paths)-1]
	r.Add("custom output path", func(ctx context.Context) report.Result {
		return client.Denoise(ctx, last, custom)
	})

	return nil
}
