package spreadsheet

import (
	"fmt"
	"strconv"
)

// Addressable grid limits. References beyond these evaluate to #REF!.
const (
	MaxColumns = 16384
	MaxRows    = 1048576
)

// CellAddress identifies a cell by zero-based column and row. The textual
// form is A1 notation: letters for the column, 1-based digits for the row.
type CellAddress struct {
	Col uint32
	Row uint32
}

// ParseCellAddress parses A1 notation into a CellAddress. The letter part
// must be uppercase and the row must not have a leading zero.
func ParseCellAddress(s string) (CellAddress, error) {
	letterEnd := 0
	for letterEnd < len(s) && s[letterEnd] >= 'A' && s[letterEnd] <= 'Z' {
		letterEnd++
	}
	if letterEnd == 0 || letterEnd == len(s) {
		return CellAddress{}, fmt.Errorf("invalid cell address: %q", s)
	}

	// column letters are bijective base-26: A=1 ... Z=26, AA=27.
	// out-of-bounds columns still parse; bounds are an evaluation concern.
	col := uint64(0)
	for i := 0; i < letterEnd; i++ {
		col = col*26 + uint64(s[i]-'A'+1)
		if col > 1<<32 {
			return CellAddress{}, fmt.Errorf("column out of range: %q", s)
		}
	}

	rowStr := s[letterEnd:]
	if rowStr[0] == '0' {
		return CellAddress{}, fmt.Errorf("invalid cell address: %q", s)
	}
	row, err := strconv.ParseUint(rowStr, 10, 32)
	if err != nil || row < 1 {
		return CellAddress{}, fmt.Errorf("invalid cell address: %q", s)
	}

	return CellAddress{Col: uint32(col - 1), Row: uint32(row - 1)}, nil
}

// String renders the address in A1 notation.
func (a CellAddress) String() string {
	col := a.Col + 1
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters) + strconv.FormatUint(uint64(a.Row)+1, 10)
}

// InBounds reports whether the address falls inside the addressable grid.
func (a CellAddress) InBounds() bool {
	return a.Col < MaxColumns && a.Row < MaxRows
}

// Less orders addresses row-major: by row, then by column. Used wherever
// ties need a deterministic order.
func (a CellAddress) Less(b CellAddress) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// Range is a rectangular block of cells between two corner addresses.
type Range struct {
	From CellAddress
	To   CellAddress
}

// normalized returns the range with From at the top-left corner and To at
// the bottom-right, regardless of how the corners were written.
func (r Range) normalized() Range {
	out := r
	if out.From.Col > out.To.Col {
		out.From.Col, out.To.Col = out.To.Col, out.From.Col
	}
	if out.From.Row > out.To.Row {
		out.From.Row, out.To.Row = out.To.Row, out.From.Row
	}
	return out
}

// InBounds reports whether the whole range lies inside the addressable
// grid. Callers must check this before Cells: expansion of an unbounded
// range is not safe.
func (r Range) InBounds() bool {
	n := r.normalized()
	return n.From.InBounds() && n.To.InBounds()
}

// Cells expands the range into its member addresses in row-major order.
func (r Range) Cells() []CellAddress {
	n := r.normalized()
	cells := make([]CellAddress, 0, (n.To.Row-n.From.Row+1)*(n.To.Col-n.From.Col+1))
	for row := n.From.Row; row <= n.To.Row; row++ {
		for col := n.From.Col; col <= n.To.Col; col++ {
			cells = append(cells, CellAddress{Col: col, Row: row})
		}
	}
	return cells
}

func (r Range) String() string {
	return r.From.String() + ":" + r.To.String()
}
