package spreadsheet

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// LoadGrid populates a workbook from pipe-delimited text: each line is a
// row, each '|'-separated field a column, fields trimmed of surrounding
// whitespace. Blank fields leave their cells empty.
func LoadGrid(w *Workbook, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	row := uint32(0)
	for scanner.Scan() {
		if row >= MaxRows {
			return fmt.Errorf("load grid: more than %d rows", MaxRows)
		}
		fields := strings.Split(scanner.Text(), "|")
		if len(fields) > MaxColumns {
			return fmt.Errorf("load grid: row %d has more than %d columns", row+1, MaxColumns)
		}
		for col, field := range fields {
			text := strings.TrimSpace(field)
			if text == "" {
				continue
			}
			w.SetCell(CellAddress{Col: uint32(col), Row: row}, text)
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("load grid: %w", err)
	}
	return nil
}

// RenderOptions controls Render output.
type RenderOptions struct {
	Color bool // highlight errors red and formula results cyan
}

// Render writes the computed grid as aligned pipe-delimited text covering
// the occupied rectangle.
func (w *Workbook) Render(out io.Writer, opts RenderOptions) error {
	cols, rows := w.extent()
	if cols == 0 || rows == 0 {
		return nil
	}

	texts := make([][]string, rows)
	widths := make([]int, cols)
	for row := uint32(0); row < rows; row++ {
		texts[row] = make([]string, cols)
		for col := uint32(0); col < cols; col++ {
			text := FormatValue(w.ValueAt(CellAddress{Col: col, Row: row}))
			texts[row][col] = text
			if n := utf8.RuneCountInString(text); n > widths[col] {
				widths[col] = n
			}
		}
	}

	errColor := color.New(color.FgRed)
	formulaColor := color.New(color.FgCyan)

	var sb strings.Builder
	for row := uint32(0); row < rows; row++ {
		sb.Reset()
		for col := uint32(0); col < cols; col++ {
			if col > 0 {
				sb.WriteString(" | ")
			}
			addr := CellAddress{Col: col, Row: row}
			text := texts[row][col]
			pad := strings.Repeat(" ", widths[col]-utf8.RuneCountInString(text))
			if opts.Color {
				if asError(w.ValueAt(addr)) != nil {
					text = errColor.Sprint(text)
				} else if strings.HasPrefix(w.RawText(addr), "=") {
					text = formulaColor.Sprint(text)
				}
			}
			sb.WriteString(text)
			sb.WriteString(pad)
		}
		if _, err := fmt.Fprintln(out, strings.TrimRight(sb.String(), " ")); err != nil {
			return fmt.Errorf("render grid: %w", err)
		}
	}
	return nil
}
