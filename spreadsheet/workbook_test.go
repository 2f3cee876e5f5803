package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(t *testing.T, w *Workbook, address, raw string) {
	t.Helper()
	require.NoError(t, w.Set(address, raw))
}

func get(t *testing.T, w *Workbook, address string) Value {
	t.Helper()
	v, err := w.Get(address)
	require.NoError(t, err)
	return v
}

func TestWorkbookLiterals(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "42")
	set(t, w, "A2", "2.5")
	set(t, w, "A3", "TRUE")
	set(t, w, "A4", "FALSE")
	set(t, w, "A5", "hello")
	set(t, w, "A6", "-3")

	assert.Equal(t, float64(42), get(t, w, "A1"))
	assert.Equal(t, float64(2.5), get(t, w, "A2"))
	assert.Equal(t, true, get(t, w, "A3"))
	assert.Equal(t, false, get(t, w, "A4"))
	assert.Equal(t, "hello", get(t, w, "A5"))
	assert.Equal(t, float64(-3), get(t, w, "A6"))
}

func TestWorkbookEmptyCellReadsAsZero(t *testing.T) {
	w := NewWorkbook()
	assert.Equal(t, float64(0), get(t, w, "Z99"))

	set(t, w, "A1", "=B7+3")
	assert.Equal(t, float64(3), get(t, w, "A1"))
}

func TestWorkbookFormulaChain(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "2")
	set(t, w, "B1", "=A1*10")
	set(t, w, "C1", "=B1+1")

	assert.Equal(t, float64(20), get(t, w, "B1"))
	assert.Equal(t, float64(21), get(t, w, "C1"))

	// editing the root recomputes every transitive reader
	set(t, w, "A1", "5")
	assert.Equal(t, float64(50), get(t, w, "B1"))
	assert.Equal(t, float64(51), get(t, w, "C1"))
}

func TestWorkbookNoStaleReads(t *testing.T) {
	// diamond: D1 reads B1 and C1, both read A1. One edit of A1 must
	// reach D1 exactly once with both inputs already fresh.
	w := NewWorkbook()
	set(t, w, "A1", "1")
	set(t, w, "B1", "=A1+1")
	set(t, w, "C1", "=A1+2")
	set(t, w, "D1", "=B1+C1")
	assert.Equal(t, float64(5), get(t, w, "D1"))

	set(t, w, "A1", "10")
	assert.Equal(t, float64(23), get(t, w, "D1"))
}

func TestWorkbookFormulaDefinedBeforeInput(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "B1", "=A1*2")
	assert.Equal(t, float64(0), get(t, w, "B1"))

	set(t, w, "A1", "4")
	assert.Equal(t, float64(8), get(t, w, "B1"))
}

func TestWorkbookSelfCycle(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=A1")

	v := get(t, w, "A1")
	assertEvalError(t, v, ErrorKindCircular)
}

func TestWorkbookMutualCycle(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=B1")
	set(t, w, "B1", "=A1")

	assertEvalError(t, get(t, w, "A1"), ErrorKindCircular)
	assertEvalError(t, get(t, w, "B1"), ErrorKindCircular)
}

func TestWorkbookCycleBreak(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=B1")
	set(t, w, "B1", "=A1")
	assertEvalError(t, get(t, w, "A1"), ErrorKindCircular)

	// overwriting one participant dissolves the cycle for both
	set(t, w, "B1", "5")
	assert.Equal(t, float64(5), get(t, w, "B1"))
	assert.Equal(t, float64(5), get(t, w, "A1"))
}

func TestWorkbookCycleDependentsGetError(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=B1")
	set(t, w, "B1", "=A1")
	// C1 reads the cycle but is not on it: it evaluates and propagates
	set(t, w, "C1", "=A1+1")

	assertEvalError(t, get(t, w, "C1"), ErrorKindCircular)

	set(t, w, "B1", "2")
	assert.Equal(t, float64(3), get(t, w, "C1"))
}

func TestWorkbookLongerCycle(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=B1")
	set(t, w, "B1", "=C1")
	set(t, w, "C1", "=A1")

	for _, address := range []string{"A1", "B1", "C1"} {
		assertEvalError(t, get(t, w, address), ErrorKindCircular)
	}
}

func TestWorkbookOverlappingCycles(t *testing.T) {
	// two cycles sharing A1: every participant of either gets the error
	w := NewWorkbook()
	set(t, w, "A1", "=B1+C1")
	set(t, w, "B1", "=A1")
	set(t, w, "C1", "=A1")

	for _, address := range []string{"A1", "B1", "C1"} {
		assertEvalError(t, get(t, w, address), ErrorKindCircular)
	}
}

func TestWorkbookRangeSum(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "1")
	set(t, w, "A2", "2")
	set(t, w, "A3", "3")
	set(t, w, "A4", "4")
	set(t, w, "B1", "=sum(A1:A4)")

	assert.Equal(t, float64(10), get(t, w, "B1"))

	// range edges are live dependencies
	set(t, w, "A3", "30")
	assert.Equal(t, float64(37), get(t, w, "B1"))
}

func TestWorkbookRangeSkipsEmptyCells(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "1")
	set(t, w, "A3", "2")
	set(t, w, "B1", "=sum(A1:A4)")
	assert.Equal(t, float64(3), get(t, w, "B1"))

	// a skipped cell still triggers recompute when it fills in
	set(t, w, "A2", "10")
	assert.Equal(t, float64(13), get(t, w, "B1"))
}

func TestWorkbookTypeErrorPropagation(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "hello")
	set(t, w, "B1", "=A1+1")
	assertEvalError(t, get(t, w, "B1"), ErrorKindType)

	set(t, w, "A1", "2")
	assert.Equal(t, float64(3), get(t, w, "B1"))
}

func TestWorkbookConcatenation(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "hello")
	set(t, w, "B1", "world")
	set(t, w, "C1", "=A1+B1")
	assert.Equal(t, "helloworld", get(t, w, "C1"))
}

func TestWorkbookDivideByZeroRecovers(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "0")
	set(t, w, "B1", "=1/A1")
	assertEvalError(t, get(t, w, "B1"), ErrorKindDivideByZero)

	set(t, w, "A1", "4")
	assert.Equal(t, float64(0.25), get(t, w, "B1"))
}

func TestWorkbookParseErrorPersists(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "1")
	set(t, w, "B1", "=A1+")
	assertEvalError(t, get(t, w, "B1"), ErrorKindParse)

	// edits elsewhere do not clear a stored parse error
	set(t, w, "A1", "2")
	assertEvalError(t, get(t, w, "B1"), ErrorKindParse)

	// re-editing the cell does
	set(t, w, "B1", "=A1+1")
	assert.Equal(t, float64(3), get(t, w, "B1"))
}

func TestWorkbookLexErrorStored(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", `="unterminated`)
	assertEvalError(t, get(t, w, "A1"), ErrorKindLex)
}

func TestWorkbookBadFormulaDropsOldEdges(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "1")
	set(t, w, "B1", "=A1*2")
	assert.Equal(t, float64(2), get(t, w, "B1"))

	// a parse error replaces the formula; B1 must stop reacting to A1
	set(t, w, "B1", "=A1+")
	set(t, w, "A1", "100")
	assertEvalError(t, get(t, w, "B1"), ErrorKindParse)
}

func TestWorkbookIdempotentSet(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "3")
	set(t, w, "B1", "=A1*A1")
	assert.Equal(t, float64(9), get(t, w, "B1"))

	set(t, w, "B1", "=A1*A1")
	assert.Equal(t, float64(9), get(t, w, "B1"))
}

func TestWorkbookClearCell(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "5")
	set(t, w, "B1", "=A1+1")
	assert.Equal(t, float64(6), get(t, w, "B1"))

	set(t, w, "A1", "")
	assert.Equal(t, float64(0), get(t, w, "A1"))
	assert.Equal(t, float64(1), get(t, w, "B1"))
}

func TestWorkbookRangeBeyondGridIsReferenceError(t *testing.T) {
	// a range with a far-out corner must yield #REF! without ever being
	// materialized; billions of member cells would exhaust memory
	w := NewWorkbook()
	set(t, w, "B1", "1")
	set(t, w, "A1", "=sum(B1:B4000000000)")
	assertEvalError(t, get(t, w, "A1"), ErrorKindReference)

	// the workbook stays usable afterwards
	set(t, w, "A1", "=sum(B1:B2)")
	assert.Equal(t, float64(1), get(t, w, "A1"))
}

func TestWorkbookOutOfGridRangeHasNoEdges(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=count(B1:ZZZZ4000000000)")
	assertEvalError(t, get(t, w, "A1"), ErrorKindReference)

	// B1 sits inside the broken range, but A1's result cannot change, so
	// editing B1 must not re-evaluate A1 through a dependency edge
	set(t, w, "B1", "7")
	assertEvalError(t, get(t, w, "A1"), ErrorKindReference)
}

func TestWorkbookUnknownFunction(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "A1", "=bogus(1)")
	assertEvalError(t, get(t, w, "A1"), ErrorKindName)
}

func TestWorkbookSetInvalidAddress(t *testing.T) {
	w := NewWorkbook()
	assert.Error(t, w.Set("nope", "1"))
	assert.Error(t, w.Set("A0", "1"))

	_, err := w.Get("nope")
	assert.Error(t, err)
}

func TestWorkbookCellsSorted(t *testing.T) {
	w := NewWorkbook()
	set(t, w, "B2", "1")
	set(t, w, "A1", "2")
	set(t, w, "C1", "3")

	assert.Equal(t, []CellAddress{
		{Col: 0, Row: 0}, {Col: 2, Row: 0}, {Col: 1, Row: 1},
	}, w.Cells())
}

func TestErrorDescriptionCoversAllKinds(t *testing.T) {
	kinds := []ErrorKind{
		ErrorKindLex, ErrorKindParse, ErrorKindName, ErrorKindArity,
		ErrorKindType, ErrorKindDivideByZero, ErrorKindReference, ErrorKindCircular,
	}
	for _, kind := range kinds {
		assert.NotEmpty(t, ErrorDescription(kind))
		assert.NotEqual(t, "Unknown error.", ErrorDescription(kind))
	}
}
