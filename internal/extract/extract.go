package extract

import (
	"errors"
	"fmt"

	"github.com/nao1215/auditcsv/internal/model"
	"github.com/nao1215/auditcsv/internal/table"
)

// Row positions inside an advisory table.
const (
	rowReason = iota
	rowPackage
	rowPatchedIn
	rowDependency

	// RequiredRows is the number of rows a table needs to become a record.
	RequiredRows
)

// ErrMalformedBlock is returned when a table cannot be read as an advisory.
var ErrMalformedBlock = errors.New("malformed advisory table")

// Extract reads the advisory held in block.
// The reason row contributes both its label (the severity) and its value;
// the other rows contribute only their value.
func Extract(block table.Block) (model.Vulnerability, error) {
	if block.Len() < RequiredRows {
		return model.Vulnerability{}, fmt.Errorf("%w: %d rows, need %d",
			ErrMalformedBlock, block.Len(), RequiredRows)
	}

	var fields [RequiredRows][2]string
	for i := range RequiredRows {
		label, value, err := splitRow(block.Rows[i])
		if err != nil {
			return model.Vulnerability{}, fmt.Errorf("%w: row %d: %w", ErrMalformedBlock, i, err)
		}
		fields[i] = [2]string{label, value}
	}

	return model.Vulnerability{
		Severity:   fields[rowReason][0],
		Reason:     fields[rowReason][1],
		Package:    fields[rowPackage][1],
		PatchedIn:  fields[rowPatchedIn][1],
		Dependency: fields[rowDependency][1],
	}, nil
}

var (
	errEmptyRow  = errors.New("row has no cells")
	errSplitCell = errors.New("cell is not a label and value pair")
)

// splitRow splits the first cell of row into its label and value. The
// values of continuation cells, written by the audit when a long value
// wraps, are appended to the value separated by a space. Continuation cells
// that are not a label and value pair are ignored.
func splitRow(row table.Row) (label, value string, err error) {
	if len(row) == 0 {
		return "", "", errEmptyRow
	}
	label, value, ok := row[0].Split()
	if !ok {
		return "", "", errSplitCell
	}

	for _, cell := range row[1:] {
		_, more, ok := cell.Split()
		if !ok || more == "" {
			continue
		}
		if value == "" {
			value = more
		} else {
			value += " " + more
		}
	}
	return label, value, nil
}
