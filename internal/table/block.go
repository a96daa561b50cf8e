package table

import "strings"

// Box-drawing glyphs recognized by the Parser.
const (
	GlyphTopLeft      = "┌"
	GlyphRowSeparator = "├"
	GlyphVertical     = "│"
	GlyphBottomLeft   = "└"
)

// Cell is the raw text of one content line inside a row, including its
// vertical bar delimiters.
type Cell string

// Split splits the cell on its interior vertical bar into a label and a
// value, both trimmed of surrounding whitespace. The outer border bars are
// removed first. ok is false unless the cell holds exactly two parts.
func (c Cell) Split() (label, value string, ok bool) {
	s := strings.TrimSpace(string(c))
	s = strings.TrimPrefix(s, GlyphVertical)
	s = strings.TrimSuffix(s, GlyphVertical)

	parts := strings.Split(s, GlyphVertical)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// Row is one logical table row: the content lines between two separators.
// A wrapped value spans several cells.
type Row []Cell

// Block is one complete table, from its top border to its bottom border.
type Block struct {
	Rows []Row
}

// Len returns the number of rows in the block.
func (b Block) Len() int {
	return len(b.Rows)
}
