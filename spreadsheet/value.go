package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
)

// Value represents the computed result of a cell. The concrete types are:
//   - float64: numbers
//   - bool: booleans (TRUE/FALSE)
//   - string: text
//   - *CellError: error values (#VALUE!, #DIV/0!, etc.)
//
// Error is an ordinary value variant, not a Go error: operators and
// functions check for it and pass it through instead of aborting.
type Value any

// ErrorKind classifies spreadsheet error values. Display codes follow
// Excel conventions where one exists.
type ErrorKind uint8

const (
	ErrorKindLex          ErrorKind = 1 // unterminated string, illegal character
	ErrorKindParse        ErrorKind = 2 // malformed expression
	ErrorKindName         ErrorKind = 3 // #NAME? - unknown function
	ErrorKindArity        ErrorKind = 4 // #N/A - wrong argument count
	ErrorKindType         ErrorKind = 5 // #VALUE! - operand fails type coercion
	ErrorKindDivideByZero ErrorKind = 6 // #DIV/0!
	ErrorKindReference    ErrorKind = 7 // #REF! - reference outside the grid
	ErrorKindCircular     ErrorKind = 8 // #CIRC! - cell participates in a cycle
)

// errorCodes maps error kinds to their in-cell display codes
var errorCodes = map[ErrorKind]string{
	ErrorKindLex:          "#ERROR!",
	ErrorKindParse:        "#ERROR!",
	ErrorKindName:         "#NAME?",
	ErrorKindArity:        "#N/A",
	ErrorKindType:         "#VALUE!",
	ErrorKindDivideByZero: "#DIV/0!",
	ErrorKindReference:    "#REF!",
	ErrorKindCircular:     "#CIRC!",
}

// errorDescriptions maps error kinds to the longer text shown by the
// hover/tooltip collaborator.
var errorDescriptions = map[ErrorKind]string{
	ErrorKindLex:          "The cell text could not be read as a formula.",
	ErrorKindParse:        "The formula is malformed.",
	ErrorKindName:         "The formula calls a function that does not exist.",
	ErrorKindArity:        "A function was called with the wrong number of arguments.",
	ErrorKindType:         "An operand or argument has the wrong type.",
	ErrorKindDivideByZero: "The formula divides by zero.",
	ErrorKindReference:    "The formula references a cell outside the grid.",
	ErrorKindCircular:     "The cell depends on itself through a chain of references.",
}

// ErrorDescription returns displayable text for an error kind, intended
// for the hover/tooltip collaborator.
func ErrorDescription(kind ErrorKind) string {
	if desc, ok := errorDescriptions[kind]; ok {
		return desc
	}
	return "Unknown error."
}

// CellError is the error variant of Value. The message carries detail for
// the specific failure; the kind selects the display code.
type CellError struct {
	Kind    ErrorKind
	Message string
}

func (e *CellError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return errorCodes[e.Kind]
}

// Code returns the short in-cell display form, e.g. "#DIV/0!".
func (e *CellError) Code() string {
	return errorCodes[e.Kind]
}

func NewCellError(kind ErrorKind, message string) *CellError {
	return &CellError{Kind: kind, Message: message}
}

// asError returns the value as a *CellError, or nil if it is not one
func asError(v Value) *CellError {
	if err, ok := v.(*CellError); ok {
		return err
	}
	return nil
}

// toNumber applies the arithmetic coercion rule: numbers pass through,
// booleans coerce to 0/1, everything else (text included) fails.
func toNumber(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// FormatValue renders a value the way a cell displays it. Whole numbers
// print without a decimal point.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return val
	case *CellError:
		return val.Code()
	default:
		return fmt.Sprint(val)
	}
}
