package report

import (
	"io"
	"strings"

	"github.com/nao1215/auditcsv/internal/model"
)

const (
	// CSVSeparator separates the columns of a CSV row.
	CSVSeparator = ";"

	// CSVHeader is the optional first line of a CSV report.
	CSVHeader = "package" + CSVSeparator + "severity" + CSVSeparator + "reason" + CSVSeparator + "patchedIn"
)

// CSVWriter outputs one semicolon separated line per record:
//
//	package;severity;reason;patchedIn
//
// Fields are written verbatim, without quoting. A field containing a
// semicolon shifts the columns of its row.
type CSVWriter struct {
	baseWriter

	// header enables the column name line.
	header bool

	// started is set once the header decision has been applied.
	started bool
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithHeader enables or disables the column name line.
func WithHeader(header bool) CSVWriterOption {
	return func(w *CSVWriter) {
		w.header = header
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
// The header is disabled by default.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// FormatCSV renders v as one CSV line including the trailing newline.
func FormatCSV(v model.Vulnerability) string {
	return strings.Join([]string{v.Package, v.Severity, v.Reason, v.PatchedIn}, CSVSeparator) + "\n"
}

// WriteRecord writes v immediately, preceded by the header on first use.
func (w *CSVWriter) WriteRecord(v model.Vulnerability) error {
	if err := w.start(); err != nil {
		return err
	}
	return w.writeString(FormatCSV(v))
}

// Flush writes the header if no record was written. The summary is unused.
func (w *CSVWriter) Flush(_ *model.Summary) error {
	return w.start()
}

func (w *CSVWriter) start() error {
	if w.started {
		return nil
	}
	w.started = true
	if !w.header {
		return nil
	}
	return w.writeString(CSVHeader + "\n")
}
