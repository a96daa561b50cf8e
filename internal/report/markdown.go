package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/auditcsv/internal/model"
)

// MarkdownWriter buffers records and outputs a Markdown document on Flush.
// The document has a summary table, a severity pie chart, an alert
// matching the worst severity found and one table of vulnerabilities.
type MarkdownWriter struct {
	baseWriter

	// title is the document heading.
	title string

	records []model.Vulnerability
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithTitle sets the document heading.
func WithTitle(title string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.title = title
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      "Dependency Audit Report",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteRecord buffers v.
func (w *MarkdownWriter) WriteRecord(v model.Vulnerability) error {
	w.records = append(w.records, v)
	return nil
}

// Flush renders the document.
func (w *MarkdownWriter) Flush(summary *model.Summary) error {
	if summary == nil {
		summary = model.NewSummary()
	}

	md := markdown.NewMarkdown(w.output)

	md.H1(w.title)
	md.PlainText("")

	w.writeSummary(md, summary)
	w.writeVulnerabilities(md)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*%d table(s) read, %d dropped as malformed, %d outside direct dependencies, %d duplicate(s)*",
		summary.Blocks, summary.Malformed, summary.Filtered, summary.Duplicates)

	return md.Build()
}

// writeSummary writes the severity table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.Severities())+1)
	for _, level := range model.Severities() {
		if level == model.SeverityUnknown && summary.Count(level) == 0 {
			continue
		}
		rows = append(rows, []string{severityLabel(level.String()), strconv.Itoa(summary.Count(level))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.Emitted) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.Emitted > 0 {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Vulnerabilities by Severity"),
		piechart.WithShowData(true),
	)

	for _, level := range model.Severities() {
		if n := summary.Count(level); n > 0 {
			chart.LabelAndIntValue(severityLabel(level.String()), uint64(n)) //nolint:gosec // Counts are never negative
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the worst severity found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch summary.Worst() {
	case model.SeverityCritical:
		md.Cautionf("%d critical vulnerability(ies) in direct dependencies.", summary.Count(model.SeverityCritical))
	case model.SeverityHigh:
		md.Warningf("%d high severity vulnerability(ies) in direct dependencies.", summary.Count(model.SeverityHigh))
	case model.SeverityModerate:
		md.Importantf("%d moderate severity vulnerability(ies) in direct dependencies.", summary.Count(model.SeverityModerate))
	default:
		if summary.Emitted > 0 {
			md.Note("Only low severity and informational vulnerabilities found.")
		} else {
			md.Tip("No vulnerabilities found in direct dependencies.")
		}
	}
	md.PlainText("")
}

// writeVulnerabilities writes the records table in report order.
func (w *MarkdownWriter) writeVulnerabilities(md *markdown.Markdown) {
	md.H2("Vulnerabilities")
	md.PlainText("")

	if len(w.records) == 0 {
		md.PlainText("No vulnerabilities reported.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(w.records))
	for i, v := range w.records {
		patched := v.PatchedIn
		if patched == "" {
			patched = "-"
		}
		rows[i] = []string{
			"`" + v.Package + "`",
			severityLabel(v.Severity),
			escapeCell(v.Reason),
			escapeCell(patched),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Package", "Severity", "Reason", "Patched In"},
		Rows:   rows,
	})
	md.PlainText("")
}

// escapeCell keeps a pipe in s from ending its table cell.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// severityLabel title-cases a severity label for display.
func severityLabel(label string) string {
	return cases.Title(language.English).String(label)
}
