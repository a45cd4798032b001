// Package week resolves a view's 3-row header into week blocks and
// determines which block is currently open for edits.
//
// Header layout (all indices 0-based):
//
//	row 0: week-date token above each block's terminal-rank column; blank elsewhere
//	row 1: rank labels for block columns; blank for field columns
//	row 2: field names for non-rank columns; the active marker beneath the
//	       active block's terminal-rank column
//
// Data rows start at HeaderRows.
package week

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/tally/internal/core/rank"
)

// HeaderRows is the number of header rows before the first data row.
const HeaderRows = 3

// Marker is the active-week token. It lives in header row 2, distinct from
// the week-date tokens in row 0.
const Marker = "ACTIVE"

// LabelFormat is the canonical week label form ("Mon D, YYYY").
const LabelFormat = "Jan 2, 2006"

// FieldColumns are the non-rank columns preceding the first week block.
// Row 2 of the header carries these names.
var FieldColumns = []string{"Student ID", "Last Name", "First Name", "Grade"}

var (
	// ErrNoActiveBlock means no header cell carries the active marker.
	ErrNoActiveBlock = errors.New("no active week block")
	// ErrActiveMismatch means the two active-week lookups disagree.
	// Callers treat this as a store-access fault, never pick one side.
	ErrActiveMismatch = errors.New("active week lookups disagree")
)

// Block is one week's contiguous run of rank columns.
type Block struct {
	Start int    // column of the lowest rank
	End   int    // column of the terminal rank
	Label string // raw row-0 token above End
}

// Blocks scans header row 1 left-to-right. Each cell equal to the terminal
// rank label closes a block of fixed width ending at that column. Pure
// function of the header rows.
func Blocks(header [][]string) []Block {
	if len(header) < HeaderRows {
		return nil
	}
	var blocks []Block
	width := rank.Count()
	for col, label := range header[1] {
		if label != rank.Terminal() {
			continue
		}
		start := col - width + 1
		if start < 0 {
			continue
		}
		blocks = append(blocks, Block{Start: start, End: col, Label: cellAt(header[0], col)})
	}
	return blocks
}

// ActiveBlock locates the block whose marker cell (row 2 beneath its
// terminal-rank column) holds the active marker. Lookup path A.
func ActiveBlock(header [][]string) (Block, bool) {
	for _, b := range Blocks(header) {
		if cellAt(header[2], b.End) == Marker {
			return b, true
		}
	}
	return Block{}, false
}

// ActiveWeekLabel scans row 2 directly for the marker, requires the
// terminal rank label directly adjacent in row 1, and normalizes the
// week-date token above it. Lookup path B. Returns the marker column.
func ActiveWeekLabel(header [][]string) (string, int, bool) {
	if len(header) < HeaderRows {
		return "", -1, false
	}
	for col, v := range header[2] {
		if v != Marker {
			continue
		}
		if cellAt(header[1], col) != rank.Terminal() {
			continue
		}
		label, err := NormalizeLabel(cellAt(header[0], col))
		if err != nil {
			return "", -1, false
		}
		return label, col, true
	}
	return "", -1, false
}

// ResolveActive runs both lookup paths and asserts that they agree on the
// active block. Divergence returns ErrActiveMismatch; absence returns
// ErrNoActiveBlock. On success the returned label is normalized.
func ResolveActive(header [][]string) (Block, string, error) {
	block, okA := ActiveBlock(header)
	label, col, okB := ActiveWeekLabel(header)
	if !okA && !okB {
		return Block{}, "", ErrNoActiveBlock
	}
	if okA != okB || col != block.End {
		return Block{}, "", ErrActiveMismatch
	}
	blockLabel, err := NormalizeLabel(block.Label)
	if err != nil || blockLabel != label {
		return Block{}, "", ErrActiveMismatch
	}
	return block, label, nil
}

// LabelForColumn resolves the normalized week label for any column inside a
// block by scanning forward to the block's terminal-rank column and reading
// the date token above it.
func LabelForColumn(header [][]string, col int) (string, error) {
	for _, b := range Blocks(header) {
		if col >= b.Start && col <= b.End {
			return NormalizeLabel(b.Label)
		}
	}
	return "", fmt.Errorf("column %d is not inside a week block", col)
}

// labelInputs are the date spellings accepted from human-edited headers.
var labelInputs = []string{
	LabelFormat,
	"January 2, 2006",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// NormalizeLabel parses a week-date token and renders it in canonical
// "Mon D, YYYY" form. Comparison elsewhere is string equality on this form.
func NormalizeLabel(s string) (string, error) {
	for _, layout := range labelInputs {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(LabelFormat), nil
		}
	}
	return "", fmt.Errorf("unparsable week label %q", s)
}

// TemplateHeader builds the 3 header rows for a fresh template view with
// the given number of week blocks, one per week starting at start. The
// block at activeWeek (0-based) carries the active marker; pass a negative
// value for no active block.
func TemplateHeader(start time.Time, weeks, activeWeek int) [][]string {
	width := len(FieldColumns) + weeks*rank.Count()
	header := make([][]string, HeaderRows)
	for i := range header {
		header[i] = make([]string, width)
	}
	for i, name := range FieldColumns {
		header[2][i] = name
	}
	for w := 0; w < weeks; w++ {
		base := len(FieldColumns) + w*rank.Count()
		for i, label := range rank.Labels {
			header[1][base+i] = label
		}
		end := base + rank.Count() - 1
		header[0][end] = start.AddDate(0, 0, 7*w).Format(LabelFormat)
		if w == activeWeek {
			header[2][end] = Marker
		}
	}
	return header
}

// FieldIndex maps header row 2 field names to their column, computed once
// per view access so cell lookups never re-scan the header.
func FieldIndex(header [][]string) map[string]int {
	idx := make(map[string]int)
	if len(header) < HeaderRows {
		return idx
	}
	for col, name := range header[2] {
		if name != "" && name != Marker {
			idx[name] = col
		}
	}
	return idx
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
