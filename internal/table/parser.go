package table

import "strings"

// State is the position of the Parser relative to a table.
type State int

const (
	// StateOutside means no table is open; non-border lines are ignored.
	StateOutside State = iota

	// StateInside means a top border was seen and the block is being filled.
	StateInside
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOutside:
		return "outside"
	case StateInside:
		return "inside"
	default:
		return "unknown"
	}
}

// Parser turns stripped text lines into Blocks.
// The zero value is ready to use and starts outside any table.
//
// A Parser is not safe for concurrent use; feed it lines in stream order.
type Parser struct {
	state State
	row   Row
	rows  []Row
}

// NewParser returns a Parser in StateOutside.
func NewParser() *Parser {
	return &Parser{}
}

// State returns the current state.
func (p *Parser) State() State {
	return p.state
}

// Pending reports whether a table has been opened but not yet closed.
// A pending block is never emitted if the input ends; it is simply lost.
func (p *Parser) Pending() bool {
	return p.state == StateInside
}

// Feed advances the state machine by one line. When the line closes a
// table, the completed Block is returned with ok set to true.
//
// A line opening a table always restarts the block, even if another table
// was still open. Rows are finalized on separators and on the bottom
// border; rows without any cell are not kept.
func (p *Parser) Feed(line string) (block Block, ok bool) {
	switch {
	case strings.Contains(line, GlyphTopLeft):
		p.state = StateInside
		p.row = nil
		p.rows = nil
	case p.state != StateInside:
		// Banners, summaries and other output between tables.
	case strings.Contains(line, GlyphBottomLeft):
		p.finishRow()
		block = Block{Rows: p.rows}
		p.state = StateOutside
		p.row = nil
		p.rows = nil
		return block, true
	case strings.Contains(line, GlyphRowSeparator):
		p.finishRow()
	case strings.Contains(line, GlyphVertical):
		p.row = append(p.row, Cell(line))
	}
	return Block{}, false
}

// Reset drops any partially built block and returns to StateOutside.
func (p *Parser) Reset() {
	p.state = StateOutside
	p.row = nil
	p.rows = nil
}

func (p *Parser) finishRow() {
	if len(p.row) == 0 {
		return
	}
	p.rows = append(p.rows, p.row)
	p.row = nil
}
