package spreadsheet

import "fmt"

// Workbook owns the sparse cell grid and the dependency graph between
// formulas. All methods assume a single writer: recomputation runs
// synchronously inside SetCell and there is no internal locking.
type Workbook struct {
	cells map[CellAddress]*Cell
	graph *depGraph
}

func NewWorkbook() *Workbook {
	return &Workbook{
		cells: make(map[CellAddress]*Cell),
		graph: newDepGraph(),
	}
}

// ValueAt implements Grid. Never-written and cleared cells read as nil;
// formulas translate that to zero at the reference site.
func (w *Workbook) ValueAt(addr CellAddress) Value {
	cell, ok := w.cells[addr]
	if !ok || cell.Kind == ContentEmpty {
		return nil
	}
	return cell.value
}

// GetCell returns the current computed value of a cell. Empty cells read
// as Number zero.
func (w *Workbook) GetCell(addr CellAddress) Value {
	v := w.ValueAt(addr)
	if v == nil {
		return float64(0)
	}
	return v
}

// SetCell writes raw text into a cell and synchronously brings the cell
// and everything that transitively reads it up to date. Formula text that
// fails to tokenize or parse leaves the error stored in the cell until
// its next edit; the cell's old dependencies are removed either way.
func (w *Workbook) SetCell(addr CellAddress, raw string) {
	if !addr.InBounds() {
		return
	}

	cell := newCell(raw)
	if cell.Kind == ContentEmpty {
		delete(w.cells, addr)
	} else {
		w.cells[addr] = cell
	}
	w.graph.setReads(addr, cell.refs())

	w.recompute(addr)
}

// recompute re-evaluates the edited cell and its transitive readers.
// Cells on a reference cycle get CircularReferenceError assigned without
// being evaluated; the rest run in dependency order, ties broken by
// address.
func (w *Workbook) recompute(edited CellAddress) {
	dirty := w.graph.dirtyClosure(edited)
	cyclic := w.graph.cycleMembers(dirty)

	for addr := range cyclic {
		if cell, ok := w.cells[addr]; ok && cell.Kind == ContentExpression && cell.ast != nil {
			cell.value = NewCellError(ErrorKindCircular,
				fmt.Sprintf("%s depends on itself", addr))
		}
	}

	for _, addr := range w.graph.evalOrder(dirty, cyclic) {
		cell, ok := w.cells[addr]
		if !ok {
			continue
		}
		// literals keep their value; expression cells with a nil ast keep
		// their stored lex/parse error
		if cell.Kind == ContentExpression && cell.ast != nil {
			cell.value = cell.ast.Eval(w)
		}
	}
}

// Set is the string-addressed convenience form of SetCell.
func (w *Workbook) Set(address, raw string) error {
	addr, err := ParseCellAddress(address)
	if err != nil {
		return fmt.Errorf("set cell: %w", err)
	}
	if !addr.InBounds() {
		return fmt.Errorf("set cell: %s is outside the grid", address)
	}
	w.SetCell(addr, raw)
	return nil
}

// Get is the string-addressed convenience form of GetCell.
func (w *Workbook) Get(address string) (Value, error) {
	addr, err := ParseCellAddress(address)
	if err != nil {
		return nil, fmt.Errorf("get cell: %w", err)
	}
	return w.GetCell(addr), nil
}

// Cells returns the addresses of all non-empty cells in row-major order.
func (w *Workbook) Cells() []CellAddress {
	set := make(map[CellAddress]struct{}, len(w.cells))
	for addr := range w.cells {
		set[addr] = struct{}{}
	}
	return sortedAddresses(set)
}

// RawText returns the text a cell was last set to, or "" for empty cells.
func (w *Workbook) RawText(addr CellAddress) string {
	if cell, ok := w.cells[addr]; ok {
		return cell.Raw
	}
	return ""
}

// extent returns the exclusive column and row bounds of the occupied
// region, for rendering.
func (w *Workbook) extent() (cols, rows uint32) {
	for addr := range w.cells {
		if addr.Col+1 > cols {
			cols = addr.Col + 1
		}
		if addr.Row+1 > rows {
			rows = addr.Row + 1
		}
	}
	return cols, rows
}
