package report

import "github.com/nao1215/auditcsv/internal/model"

// Recorder is a Writer that keeps every record it receives in memory.
// Combine it with NewMultiWriter to keep a copy of what another Writer emitted.
type Recorder struct {
	records []model.Vulnerability
	summary *model.Summary
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WriteRecord appends v.
func (r *Recorder) WriteRecord(v model.Vulnerability) error {
	r.records = append(r.records, v)
	return nil
}

// Flush remembers summary.
func (r *Recorder) Flush(summary *model.Summary) error {
	r.summary = summary
	return nil
}

// Records returns the recorded records in the order they were written.
func (r *Recorder) Records() []model.Vulnerability {
	return r.records
}

// Summary returns the summary passed to Flush, or nil before Flush.
func (r *Recorder) Summary() *model.Summary {
	return r.summary
}
