package spreadsheet

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// builtin describes one entry in the closed function table. maxArgs of -1
// means variadic.
type builtin struct {
	minArgs int
	maxArgs int
	fn      func(args []Value) Value
}

var builtins = map[string]builtin{
	"sum":     {0, -1, builtinSum},
	"product": {0, -1, builtinProduct},
	"max":     {1, -1, builtinMax},
	"min":     {1, -1, builtinMin},
	"average": {1, -1, builtinAverage},
	"count":   {0, -1, builtinCount},
	"length":  {1, 1, builtinLength},
	"if":      {3, 3, builtinIf},
	"round":   {1, 1, builtinRound},
	"pow":     {2, 2, builtinPow},
}

// callBuiltin dispatches a call whose arguments are already flattened and
// error-free. Unknown names and arity violations come back as error values.
func callBuiltin(name string, args []Value) Value {
	b, ok := builtins[name]
	if !ok {
		return NewCellError(ErrorKindName, fmt.Sprintf("unknown function %q", name))
	}
	if err := checkArity(name, b, len(args)); err != nil {
		return err
	}
	return b.fn(args)
}

func checkArity(name string, b builtin, got int) *CellError {
	if b.maxArgs == -1 {
		if got < b.minArgs {
			return NewCellError(ErrorKindArity,
				fmt.Sprintf("%s expects at least %s, got %d", name, pluralArgs(b.minArgs), got))
		}
		return nil
	}
	if got < b.minArgs || got > b.maxArgs {
		return NewCellError(ErrorKindArity,
			fmt.Sprintf("%s expects %s, got %d", name, pluralArgs(b.minArgs), got))
	}
	return nil
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

// numbers extracts float64 arguments under the numeric-strict policy:
// any Boolean or Text argument is a type error.
func numbers(name string, args []Value) ([]float64, *CellError) {
	nums := make([]float64, len(args))
	for i, arg := range args {
		n, ok := arg.(float64)
		if !ok {
			return nil, NewCellError(ErrorKindType,
				fmt.Sprintf("%s requires numeric arguments, got %s", name, FormatValue(arg)))
		}
		nums[i] = n
	}
	return nums, nil
}

func builtinSum(args []Value) Value {
	nums, err := numbers("sum", args)
	if err != nil {
		return err
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return total
}

func builtinProduct(args []Value) Value {
	nums, err := numbers("product", args)
	if err != nil {
		return err
	}
	product := 1.0
	for _, n := range nums {
		product *= n
	}
	return product
}

func builtinMax(args []Value) Value {
	nums, err := numbers("max", args)
	if err != nil {
		return err
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n > best {
			best = n
		}
	}
	return best
}

func builtinMin(args []Value) Value {
	nums, err := numbers("min", args)
	if err != nil {
		return err
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n < best {
			best = n
		}
	}
	return best
}

func builtinAverage(args []Value) Value {
	nums, err := numbers("average", args)
	if err != nil {
		return err
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return total / float64(len(nums))
}

// count tallies Number arguments and ignores everything else, so mixed
// input is never a type error here.
func builtinCount(args []Value) Value {
	count := 0.0
	for _, arg := range args {
		if _, ok := arg.(float64); ok {
			count++
		}
	}
	return count
}

func builtinLength(args []Value) Value {
	s, ok := args[0].(string)
	if !ok {
		return NewCellError(ErrorKindType,
			fmt.Sprintf("length requires a text argument, got %s", FormatValue(args[0])))
	}
	return float64(utf8.RuneCountInString(s))
}

func builtinIf(args []Value) Value {
	cond, ok := args[0].(bool)
	if !ok {
		return NewCellError(ErrorKindType,
			fmt.Sprintf("if requires a boolean condition, got %s", FormatValue(args[0])))
	}
	if cond {
		return args[1]
	}
	return args[2]
}

func builtinRound(args []Value) Value {
	nums, err := numbers("round", args)
	if err != nil {
		return err
	}
	return math.Round(nums[0])
}

func builtinPow(args []Value) Value {
	nums, err := numbers("pow", args)
	if err != nil {
		return err
	}
	return math.Pow(nums[0], nums[1])
}
