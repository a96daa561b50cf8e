package report

import (
	"io"

	"github.com/nao1215/auditcsv/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// WriteRecord outputs or buffers one record.
	WriteRecord(v model.Vulnerability) error

	// Flush completes the report. summary describes the whole run.
	Flush(summary *model.Summary) error
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for producing a CSV file and a Markdown summary in one run.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRecord passes v to every writer, stopping on the first error.
func (m *MultiWriter) WriteRecord(v model.Vulnerability) error {
	for _, w := range m.writers {
		if err := w.WriteRecord(v); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every writer, stopping on the first error.
func (m *MultiWriter) Flush(summary *model.Summary) error {
	for _, w := range m.writers {
		if err := w.Flush(summary); err != nil {
			return err
		}
	}
	return nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// writeString writes s to the output.
func (b baseWriter) writeString(s string) error {
	_, err := io.WriteString(b.output, s)
	return err
}
