package spreadsheet

import "strconv"

// ContentKind classifies what a cell's raw text turned out to be.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentLiteral
	ContentExpression
)

// Cell holds one cell's raw text alongside its parsed and computed state.
// For expression cells ast is nil when the text failed to tokenize or
// parse; the error is then stored as the value until the next edit.
type Cell struct {
	Raw   string
	Kind  ContentKind
	ast   Node
	value Value
}

// newCell classifies raw text: a leading '=' makes an expression, then
// the exact literals TRUE/FALSE, then anything numeric, then text. Empty
// text clears the cell.
func newCell(raw string) *Cell {
	c := &Cell{Raw: raw}

	if len(raw) > 0 && raw[0] == '=' {
		c.Kind = ContentExpression
		tokens, lexErr := NewLexer(raw[1:]).Tokenize()
		if lexErr != nil {
			c.value = lexErr
			return c
		}
		ast, parseErr := NewParser(tokens).Parse()
		if parseErr != nil {
			c.value = parseErr
			return c
		}
		c.ast = ast
		return c
	}

	switch {
	case raw == "":
		c.Kind = ContentEmpty
	case raw == "TRUE":
		c.Kind = ContentLiteral
		c.value = true
	case raw == "FALSE":
		c.Kind = ContentLiteral
		c.value = false
	default:
		c.Kind = ContentLiteral
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			c.value = n
		} else {
			c.value = raw
		}
	}
	return c
}

// refs walks the AST and collects every cell the formula reads. Range
// arguments contribute their in-bounds member cells.
func (c *Cell) refs() []CellAddress {
	if c.ast == nil {
		return nil
	}
	seen := make(map[CellAddress]struct{})
	var out []CellAddress
	add := func(addr CellAddress) {
		if _, dup := seen[addr]; dup {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	collectRefs(c.ast, add)
	return out
}

func collectRefs(n Node, add func(CellAddress)) {
	switch node := n.(type) {
	case *CellRefNode:
		if node.Addr.InBounds() {
			add(node.Addr)
		}
	case *RangeRefNode:
		// an out-of-grid range evaluates to a reference error no matter
		// what its in-bounds members hold, so it contributes no edges;
		// expanding it unchecked would be unbounded
		if node.R.InBounds() {
			for _, addr := range node.R.Cells() {
				add(addr)
			}
		}
	case *BinaryOpNode:
		collectRefs(node.Left, add)
		collectRefs(node.Right, add)
	case *UnaryOpNode:
		collectRefs(node.Operand, add)
	case *FunctionCallNode:
		for _, arg := range node.Args {
			collectRefs(arg, add)
		}
	}
}
