package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nao1215/auditcsv/internal/filter"
	"github.com/nao1215/auditcsv/internal/model"
	"github.com/nao1215/auditcsv/internal/report"
)

// DefaultMaxLineSize is the longest input line accepted, in bytes.
// Audit tables are far narrower; longer lines indicate binary input.
const DefaultMaxLineSize = 1024 * 1024

// Pipeline reads audit output and writes the surviving records.
type Pipeline struct {
	// deps is the set of direct dependencies, read-only for the run.
	deps filter.DependencySet

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// maxLineSize bounds the line buffer of the input scanner.
	maxLineSize int
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMaxLineSize sets the longest accepted input line.
// Non-positive values keep the default.
func WithMaxLineSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxLineSize = n
		}
	}
}

// New creates a Pipeline keeping advisories of the given direct dependencies.
func New(deps filter.DependencySet, opts ...Option) *Pipeline {
	p := &Pipeline{
		deps:        deps,
		maxLineSize: DefaultMaxLineSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Run converts everything read from input and writes it to w.
// Every call starts with a fresh parser and seen set.
//
// Input is read on a separate goroutine, so cancelling ctx stops Run even
// while a read is blocked. On cancellation, a read error or a write error,
// Run returns the error without flushing w; the summary returned alongside
// reflects the lines processed so far. A read still blocked at that point
// finishes in the background and its result is discarded.
func (p *Pipeline) Run(ctx context.Context, input io.Reader, w report.Writer) (*model.Summary, error) {
	proc := NewProcessor(p.deps, p.logger)

	done := make(chan struct{})
	defer close(done)
	lineCh, readErr := p.scanLines(input, done)

	lines := 0
read:
	for {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("conversion cancelled", "lines", lines, "reason", err)
			return proc.Summary(), err
		}

		var line string
		select {
		case <-ctx.Done():
			continue
		case l, ok := <-lineCh:
			if !ok {
				break read
			}
			line = l
		}
		lines++

		v, ok := proc.ProcessLine(strings.TrimSuffix(line, "\r"))
		if !ok {
			continue
		}
		if err := w.WriteRecord(v); err != nil {
			return proc.Summary(), fmt.Errorf("failed to write report: %w", err)
		}
	}
	if err := readErr(); err != nil {
		return proc.Summary(), fmt.Errorf("failed to read input: %w", err)
	}
	// A cancellation that raced with the end of input still aborts the run.
	if err := ctx.Err(); err != nil {
		p.logger.Warn("conversion cancelled", "lines", lines, "reason", err)
		return proc.Summary(), err
	}

	if proc.Pending() {
		p.logger.Debug("input ended inside a table; discarding it")
	}

	summary := proc.Summary()
	if err := w.Flush(summary); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}

	p.logger.Info("conversion finished",
		"lines", lines,
		"tables", summary.Blocks,
		"reported", summary.Emitted,
		"malformed", summary.Malformed,
		"filtered", summary.Filtered,
		"duplicates", summary.Duplicates,
	)

	return summary, nil
}

// scanLines sends the lines of input on the returned channel until input is
// exhausted or done is closed. The error function reports the scanner error
// and may only be called after the channel is closed.
func (p *Pipeline) scanLines(input io.Reader, done <-chan struct{}) (<-chan string, func() error) {
	lines := make(chan string)
	var scanErr error

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, min(64*1024, p.maxLineSize)), p.maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr = scanner.Err()
	}()

	return lines, func() error { return scanErr }
}
