package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/auditcsv/internal/model"
)

// sampleRecords returns records in report order for testing.
func sampleRecords() []model.Vulnerability {
	return []model.Vulnerability{
		{Severity: "high", Reason: "Prototype Pollution", Package: "left-pad", PatchedIn: ">=1.3.0", Dependency: "left-pad"},
		{Severity: "moderate", Reason: "Regular Expression Denial of Service", Package: "minimatch", PatchedIn: ">=3.0.2", Dependency: "glob"},
		{Severity: "critical", Reason: "Command Injection", Package: "shell-quote", PatchedIn: "", Dependency: "shell-quote"},
	}
}

// sampleSummary returns a summary matching sampleRecords.
func sampleSummary() *model.Summary {
	s := model.NewSummary()
	s.Blocks = 5
	s.Malformed = 1
	s.Duplicates = 1
	for _, v := range sampleRecords() {
		s.AddEmitted(v)
	}
	return s
}

// failingWriter returns an error on every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one line per record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		for _, v := range sampleRecords() {
			if err := w.WriteRecord(v); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if err := w.Flush(sampleSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "left-pad;high;Prototype Pollution;>=1.3.0\n" +
			"minimatch;moderate;Regular Expression Denial of Service;>=3.0.2\n" +
			"shell-quote;critical;Command Injection;\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("header precedes rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf, WithHeader(true))
		if err := w.WriteRecord(sampleRecords()[0]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Flush(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "package;severity;reason;patchedIn\nleft-pad;high;Prototype Pollution;>=1.3.0\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("header alone when nothing is reported", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf, WithHeader(true))
		if err := w.Flush(model.NewSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != CSVHeader+"\n" {
			t.Errorf("expected header only, got %q", buf.String())
		}
	})

	t.Run("empty report without header is empty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		if err := w.Flush(model.NewSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("does not escape separators", func(t *testing.T) {
		t.Parallel()

		got := FormatCSV(model.Vulnerability{Package: "pkg", Severity: "low", Reason: "a;b", PatchedIn: "<0.0.0"})
		if got != "pkg;low;a;b;<0.0.0\n" {
			t.Errorf("unexpected row %q", got)
		}
	})

	t.Run("returns write errors", func(t *testing.T) {
		t.Parallel()

		w := NewCSVWriter(failingWriter{})
		if err := w.WriteRecord(sampleRecords()[0]); err == nil {
			t.Error("expected error from failing output")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes records and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		for _, v := range sampleRecords() {
			if err := w.WriteRecord(v); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if err := w.Flush(sampleSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc JSONReport
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(doc.Vulnerabilities) != 3 {
			t.Fatalf("expected 3 vulnerabilities, got %d", len(doc.Vulnerabilities))
		}
		if doc.Vulnerabilities[0].Package != "left-pad" {
			t.Errorf("expected report order to be kept, got %q first", doc.Vulnerabilities[0].Package)
		}
		if doc.Summary.Emitted != 3 {
			t.Errorf("expected 3 emitted in summary, got %d", doc.Summary.Emitted)
		}
		if doc.Summary.Count(model.SeverityCritical) != 1 {
			t.Errorf("expected 1 critical in summary, got %d", doc.Summary.Count(model.SeverityCritical))
		}
	})

	t.Run("empty report has empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		if err := w.Flush(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"vulnerabilities":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		if err := w.Flush(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"summary\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes document sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithTitle("Audit of demo"))
		for _, v := range sampleRecords() {
			if err := w.WriteRecord(v); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if err := w.Flush(sampleSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Audit of demo",
			"## Summary",
			"## Vulnerabilities",
			"`left-pad`",
			"Prototype Pollution",
			"Critical",
			"mermaid",
			"[!CAUTION]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("escapes pipes in table cells", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		v := model.Vulnerability{Severity: "low", Reason: "Bypass via a|b", Package: "qs", PatchedIn: ">=1 || >=2", Dependency: "qs"}
		if err := w.WriteRecord(v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		summary := model.NewSummary()
		summary.AddEmitted(v)
		if err := w.Flush(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{`Bypass via a\|b`, `>=1 \|\| >=2`} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("empty report has tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		if err := w.Flush(model.NewSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No vulnerabilities reported.") {
			t.Error("expected empty report message")
		}
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var csvBuf, jsonBuf bytes.Buffer
	w := NewMultiWriter(NewCSVWriter(&csvBuf), NewJSONWriter(&jsonBuf))

	if err := w.WriteRecord(sampleRecords()[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(csvBuf.String(), "left-pad;high") {
		t.Errorf("expected CSV output, got %q", csvBuf.String())
	}
	if !strings.Contains(jsonBuf.String(), `"package":"left-pad"`) {
		t.Errorf("expected JSON output, got %q", jsonBuf.String())
	}
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Reported:        3") {
		t.Errorf("expected reported count, got %q", output)
	}
	if !strings.Contains(output, "critical=1 high=1 moderate=1") {
		t.Errorf("expected severity breakdown, got %q", output)
	}
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var csvBuf bytes.Buffer
	rec := NewRecorder()
	w := NewMultiWriter(NewCSVWriter(&csvBuf), rec)

	if rec.Summary() != nil {
		t.Error("expected nil summary before Flush")
	}
	for _, v := range sampleRecords() {
		if err := w.WriteRecord(v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	summary := sampleSummary()
	if err := w.Flush(summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.Records()
	want := sampleRecords()
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if rec.Summary() != summary {
		t.Error("expected Flush summary to be kept")
	}
}
