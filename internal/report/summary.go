package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/auditcsv/internal/model"
)

// WriteSummary writes a short human-readable account of a run, meant for
// stderr while the report itself goes to stdout or a file.
func WriteSummary(output io.Writer, summary *model.Summary) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Tables read:     %d\n", summary.Blocks))
	sb.WriteString(fmt.Sprintf("Reported:        %d\n", summary.Emitted))
	sb.WriteString(fmt.Sprintf("Malformed:       %d\n", summary.Malformed))
	sb.WriteString(fmt.Sprintf("Not direct:      %d\n", summary.Filtered))
	sb.WriteString(fmt.Sprintf("Duplicates:      %d\n", summary.Duplicates))

	var parts []string
	for _, level := range model.Severities() {
		if n := summary.Count(level); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", level, n))
		}
	}
	if len(parts) > 0 {
		sb.WriteString("By severity:     " + strings.Join(parts, " ") + "\n")
	}

	_, err := io.WriteString(output, sb.String())
	return err
}
