package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) Node {
	t.Helper()
	tokens, lexErr := NewLexer(input).Tokenize()
	require.Nil(t, lexErr)
	node, parseErr := NewParser(tokens).Parse()
	require.Nil(t, parseErr)
	return node
}

func parseError(t *testing.T, input string) *CellError {
	t.Helper()
	tokens, lexErr := NewLexer(input).Tokenize()
	require.Nil(t, lexErr)
	_, parseErr := NewParser(tokens).Parse()
	require.NotNil(t, parseErr)
	assert.Equal(t, ErrorKindParse, parseErr.Kind)
	return parseErr
}

func TestParseLiterals(t *testing.T) {
	assert.Equal(t, &NumberNode{Value: 42}, parse(t, "42"))
	assert.Equal(t, &NumberNode{Value: 2.5}, parse(t, "2.5"))
	assert.Equal(t, &BooleanNode{Value: true}, parse(t, "TRUE"))
	assert.Equal(t, &BooleanNode{Value: false}, parse(t, "FALSE"))
	assert.Equal(t, &TextNode{Value: "hi"}, parse(t, `"hi"`))
	assert.Equal(t, &CellRefNode{Addr: CellAddress{Col: 1, Row: 2}}, parse(t, "B3"))
}

func TestParsePrecedence(t *testing.T) {
	// 1+2*3 groups as 1+(2*3)
	node := parse(t, "1+2*3")
	add, ok := node.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpAdd, add.Op)
	assert.Equal(t, &NumberNode{Value: 1}, add.Left)

	mul, ok := add.Right.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpMultiply, mul.Op)
}

func TestParseComparisonIsLowest(t *testing.T) {
	// 1+2=3 groups as (1+2)=3
	node := parse(t, "1+2=3")
	eq, ok := node.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpEqual, eq.Op)

	add, ok := eq.Left.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpAdd, add.Op)
}

func TestParseLeftAssociativity(t *testing.T) {
	// 10-4-3 groups as (10-4)-3
	node := parse(t, "10-4-3")
	outer, ok := node.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpSubtract, outer.Op)
	assert.Equal(t, &NumberNode{Value: 3}, outer.Right)

	inner, ok := outer.Left.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpSubtract, inner.Op)
}

func TestParsePowerRightAssociativity(t *testing.T) {
	// 2^3^2 groups as 2^(3^2)
	node := parse(t, "2^3^2")
	outer, ok := node.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpPower, outer.Op)
	assert.Equal(t, &NumberNode{Value: 2}, outer.Left)

	inner, ok := outer.Right.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpPower, inner.Op)
}

func TestParseUnaryMinus(t *testing.T) {
	node := parse(t, "-A1")
	neg, ok := node.(*UnaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpNegate, neg.Op)
	assert.Equal(t, &CellRefNode{Addr: CellAddress{Col: 0, Row: 0}}, neg.Operand)

	// chained
	node = parse(t, "--5")
	outer, ok := node.(*UnaryOpNode)
	require.True(t, ok)
	_, ok = outer.Operand.(*UnaryOpNode)
	assert.True(t, ok)
}

func TestParseParentheses(t *testing.T) {
	// (1+2)*3 overrides precedence
	node := parse(t, "(1+2)*3")
	mul, ok := node.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpMultiply, mul.Op)

	add, ok := mul.Left.(*BinaryOpNode)
	require.True(t, ok)
	assert.Equal(t, OpAdd, add.Op)
}

func TestParseFunctionCall(t *testing.T) {
	node := parse(t, "sum(1,A1,A2:B3)")
	call, ok := node.(*FunctionCallNode)
	require.True(t, ok)
	assert.Equal(t, "sum", call.Name)
	require.Len(t, call.Args, 3)

	assert.Equal(t, &NumberNode{Value: 1}, call.Args[0])
	assert.Equal(t, &CellRefNode{Addr: CellAddress{Col: 0, Row: 0}}, call.Args[1])
	assert.Equal(t, &RangeRefNode{R: Range{
		From: CellAddress{Col: 0, Row: 1},
		To:   CellAddress{Col: 1, Row: 2},
	}}, call.Args[2])
}

func TestParseEmptyArgumentList(t *testing.T) {
	node := parse(t, "sum()")
	call, ok := node.(*FunctionCallNode)
	require.True(t, ok)
	assert.Empty(t, call.Args)
}

func TestParseNestedCalls(t *testing.T) {
	node := parse(t, "max(sum(A1:A3),min(1,2))")
	call, ok := node.(*FunctionCallNode)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	_, ok = call.Args[0].(*FunctionCallNode)
	assert.True(t, ok)
	_, ok = call.Args[1].(*FunctionCallNode)
	assert.True(t, ok)
}

func TestParseRangeOutsideCallIsError(t *testing.T) {
	parseError(t, "A1:B2")
	parseError(t, "A1:B2+1")
	parseError(t, "1+A1:B2")
	parseError(t, "(A1:B2)")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"dangling operator", "1+"},
		{"missing close paren", "(1+2"},
		{"bare identifier", "foo"},
		{"missing comma", "sum(1 2)"},
		{"trailing tokens", "1 2"},
		{"dangling colon in call", "sum(A1:)"},
		{"consecutive operators", "1*/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseError(t, tt.input)
		})
	}
}
