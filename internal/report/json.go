package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/auditcsv/internal/model"
)

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Summary describes the run that produced the records.
	Summary *model.Summary `json:"summary"`

	// Vulnerabilities holds the reported records in report order.
	Vulnerabilities []model.Vulnerability `json:"vulnerabilities"`
}

// JSONWriter buffers records and outputs one JSON document on Flush.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	records []model.Vulnerability
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		records:    make([]model.Vulnerability, 0),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteRecord buffers v.
func (w *JSONWriter) WriteRecord(v model.Vulnerability) error {
	w.records = append(w.records, v)
	return nil
}

// Flush writes the buffered records and summary as one JSON document.
func (w *JSONWriter) Flush(summary *model.Summary) error {
	if summary == nil {
		summary = model.NewSummary()
	}

	doc := JSONReport{
		Summary:         summary,
		Vulnerabilities: w.records,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	_, err = w.output.Write(data)
	return err
}
