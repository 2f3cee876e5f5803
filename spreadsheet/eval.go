package spreadsheet

import (
	"fmt"
	"math"
)

// Grid is the read-only view of the sheet an evaluation runs against.
// ValueAt returns nil for cells that were never written.
type Grid interface {
	ValueAt(addr CellAddress) Value
}

func (n *NumberNode) Eval(g Grid) Value {
	return n.Value
}

func (n *BooleanNode) Eval(g Grid) Value {
	return n.Value
}

func (n *TextNode) Eval(g Grid) Value {
	return n.Value
}

func (n *CellRefNode) Eval(g Grid) Value {
	if !n.Addr.InBounds() {
		return NewCellError(ErrorKindReference,
			fmt.Sprintf("reference %s is outside the grid", n.Addr))
	}
	v := g.ValueAt(n.Addr)
	if v == nil {
		// empty cells read as zero
		return float64(0)
	}
	return v
}

// Eval on a bare range is unreachable through the parser, which confines
// ranges to function arguments where the call node expands them.
func (n *RangeRefNode) Eval(g Grid) Value {
	return NewCellError(ErrorKindType,
		fmt.Sprintf("range %s is only valid as a function argument", n.R))
}

func (n *BinaryOpNode) Eval(g Grid) Value {
	left := n.Left.Eval(g)
	if err := asError(left); err != nil {
		return err
	}
	right := n.Right.Eval(g)
	if err := asError(right); err != nil {
		return err
	}

	switch n.Op {
	case OpAdd:
		// + doubles as concatenation when both sides are text
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs
			}
		}
		return numericOp(n.Op, left, right)
	case OpSubtract, OpMultiply, OpDivide, OpPower:
		return numericOp(n.Op, left, right)
	case OpEqual:
		return valuesEqual(left, right)
	case OpNotEqual:
		return !valuesEqual(left, right)
	default:
		return compareOrdered(n.Op, left, right)
	}
}

func (n *UnaryOpNode) Eval(g Grid) Value {
	v := n.Operand.Eval(g)
	if err := asError(v); err != nil {
		return err
	}
	num, ok := toNumber(v)
	if !ok {
		return NewCellError(ErrorKindType, "negation requires a numeric value")
	}
	return -num
}

func (n *FunctionCallNode) Eval(g Grid) Value {
	// flatten the arguments: each range argument expands to the values of
	// its non-empty member cells, everything else evaluates to one value
	var args []Value
	for _, argNode := range n.Args {
		if rangeNode, ok := argNode.(*RangeRefNode); ok {
			// bounds come first: an out-of-grid corner must never expand
			if !rangeNode.R.InBounds() {
				args = append(args, NewCellError(ErrorKindReference,
					fmt.Sprintf("range %s is outside the grid", rangeNode.R)))
				continue
			}
			for _, addr := range rangeNode.R.Cells() {
				if v := g.ValueAt(addr); v != nil {
					args = append(args, v)
				}
			}
			continue
		}
		args = append(args, argNode.Eval(g))
	}

	// the first error among the arguments short-circuits the call
	for _, arg := range args {
		if err := asError(arg); err != nil {
			return err
		}
	}

	return callBuiltin(n.Name, args)
}

// numericOp applies an arithmetic operator after coercing both operands.
func numericOp(op BinaryOp, left, right Value) Value {
	leftNum, ok := toNumber(left)
	if !ok {
		return NewCellError(ErrorKindType,
			fmt.Sprintf("%s is not numeric", FormatValue(left)))
	}
	rightNum, ok := toNumber(right)
	if !ok {
		return NewCellError(ErrorKindType,
			fmt.Sprintf("%s is not numeric", FormatValue(right)))
	}

	switch op {
	case OpAdd:
		return leftNum + rightNum
	case OpSubtract:
		return leftNum - rightNum
	case OpMultiply:
		return leftNum * rightNum
	case OpDivide:
		if rightNum == 0 {
			return NewCellError(ErrorKindDivideByZero, "division by zero")
		}
		return leftNum / rightNum
	case OpPower:
		return math.Pow(leftNum, rightNum)
	default:
		return NewCellError(ErrorKindType, "unknown operator")
	}
}

// valuesEqual implements = and <>. Values of different types are simply
// unequal; no coercion happens here.
func valuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case float64:
		r, ok := right.(float64)
		return ok && l == r
	case bool:
		r, ok := right.(bool)
		return ok && l == r
	case string:
		r, ok := right.(string)
		return ok && l == r
	default:
		return false
	}
}

// compareOrdered implements < <= > >=, which require two Numbers or two
// Texts. Booleans have no order.
func compareOrdered(op BinaryOp, left, right Value) Value {
	var cmp int
	switch l := left.(type) {
	case float64:
		r, ok := right.(float64)
		if !ok {
			return NewCellError(ErrorKindType, "cannot order values of different types")
		}
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	case string:
		r, ok := right.(string)
		if !ok {
			return NewCellError(ErrorKindType, "cannot order values of different types")
		}
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	default:
		return NewCellError(ErrorKindType, "values of this type cannot be ordered")
	}

	switch op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	default:
		return NewCellError(ErrorKindType, "unknown comparison operator")
	}
}
