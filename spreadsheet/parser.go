package spreadsheet

import (
	"fmt"
	"strconv"
)

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpPower
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

// UnaryOp represents unary operators in AST nodes
type UnaryOp int

const (
	OpNegate UnaryOp = iota
)

// Node is a formula AST node. Evaluation never fails out-of-band: error
// conditions come back as *CellError values.
type Node interface {
	Eval(g Grid) Value
}

// NumberNode represents a numeric literal
type NumberNode struct {
	Value float64
}

// BooleanNode represents a boolean literal
type BooleanNode struct {
	Value bool
}

// TextNode represents a string literal
type TextNode struct {
	Value string
}

// CellRefNode represents a reference to a single cell
type CellRefNode struct {
	Addr CellAddress
}

// RangeRefNode represents a rectangular range. The parser only ever
// produces one as a direct function-call argument.
type RangeRefNode struct {
	R Range
}

// BinaryOpNode represents a binary operation
type BinaryOpNode struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

// UnaryOpNode represents a unary operation
type UnaryOpNode struct {
	Op      UnaryOp
	Operand Node
}

// FunctionCallNode represents a call to a built-in function
type FunctionCallNode struct {
	Name string
	Args []Node
}

// Parser turns a token stream into an AST by precedence climbing:
// comparison < additive < multiplicative < power < unary < primary.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses one complete expression and requires the input to end there.
func (p *Parser) Parse() (Node, *CellError) {
	node, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	if tok.Type != TokenEOF {
		if tok.Type == TokenColon {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("range at position %d is only valid as a function argument", tok.Pos))
		}
		return nil, NewCellError(ErrorKindParse,
			fmt.Sprintf("unexpected token %q at position %d", tok.Value, tok.Pos))
	}

	return node, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// parseComparison handles comparison operators (lowest precedence)
func (p *Parser) parseComparison() (Node, *CellError) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOp {
			return left, nil
		}

		var op BinaryOp
		switch tok.Value {
		case "=":
			op = OpEqual
		case "<>":
			op = OpNotEqual
		case "<":
			op = OpLess
		case "<=":
			op = OpLessEqual
		case ">":
			op = OpGreater
		case ">=":
			op = OpGreaterEqual
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parseAdditive handles addition and subtraction
func (p *Parser) parseAdditive() (Node, *CellError) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOp {
			return left, nil
		}

		var op BinaryOp
		switch tok.Value {
		case "+":
			op = OpAdd
		case "-":
			op = OpSubtract
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parseMultiplicative handles multiplication and division
func (p *Parser) parseMultiplicative() (Node, *CellError) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type != TokenOp {
			return left, nil
		}

		var op BinaryOp
		switch tok.Value {
		case "*":
			op = OpMultiply
		case "/":
			op = OpDivide
		default:
			return left, nil
		}

		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &BinaryOpNode{Op: op, Left: left, Right: right}
	}
}

// parsePower handles exponentiation (right-associative)
func (p *Parser) parsePower() (Node, *CellError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	if tok.Type == TokenOp && tok.Value == "^" {
		p.pos++
		right, err := p.parsePower() // recursive for right-associativity
		if err != nil {
			return nil, err
		}
		return &BinaryOpNode{Op: OpPower, Left: left, Right: right}, nil
	}

	return left, nil
}

// parseUnary handles prefix minus, chaining for --x
func (p *Parser) parseUnary() (Node, *CellError) {
	tok := p.current()
	if tok.Type == TokenOp && tok.Value == "-" {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOpNode{Op: OpNegate, Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, references, function calls, and
// parenthesized subexpressions.
func (p *Parser) parsePrimary() (Node, *CellError) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.pos++
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("invalid number %q at position %d", tok.Value, tok.Pos))
		}
		return &NumberNode{Value: val}, nil

	case TokenString:
		p.pos++
		return &TextNode{Value: tok.Value}, nil

	case TokenBoolean:
		p.pos++
		return &BooleanNode{Value: tok.Value == "TRUE"}, nil

	case TokenCell:
		if p.peek().Type == TokenColon {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("range at position %d is only valid as a function argument", tok.Pos))
		}
		p.pos++
		addr, err := ParseCellAddress(tok.Value)
		if err != nil {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("invalid cell reference %q at position %d", tok.Value, tok.Pos))
		}
		return &CellRefNode{Addr: addr}, nil

	case TokenIdent:
		if p.peek().Type != TokenLeftParen {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("unexpected identifier %q at position %d", tok.Value, tok.Pos))
		}
		return p.parseFunctionCall()

	case TokenLeftParen:
		p.pos++
		node, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRightParen {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("expected closing parenthesis at position %d", p.current().Pos))
		}
		p.pos++
		return node, nil

	case TokenEOF:
		return nil, NewCellError(ErrorKindParse, "unexpected end of expression")

	default:
		return nil, NewCellError(ErrorKindParse,
			fmt.Sprintf("unexpected token %q at position %d", tok.Value, tok.Pos))
	}
}

// parseFunctionCall parses name(arg, ...). Ranges are accepted only here,
// as direct arguments.
func (p *Parser) parseFunctionCall() (Node, *CellError) {
	name := p.current().Value
	p.pos++ // consume identifier
	p.pos++ // consume '('

	args := []Node{}

	if p.current().Type == TokenRightParen {
		p.pos++
		return &FunctionCallNode{Name: name, Args: args}, nil
	}

	for {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.current().Type {
		case TokenRightParen:
			p.pos++
			return &FunctionCallNode{Name: name, Args: args}, nil
		case TokenComma:
			p.pos++
		default:
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("expected ',' or ')' at position %d", p.current().Pos))
		}
	}
}

// parseArgument parses one function argument, which may be a range.
func (p *Parser) parseArgument() (Node, *CellError) {
	tok := p.current()
	if tok.Type == TokenCell && p.peek().Type == TokenColon {
		from, err := ParseCellAddress(tok.Value)
		if err != nil {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("invalid cell reference %q at position %d", tok.Value, tok.Pos))
		}
		p.pos += 2 // consume cell and ':'

		endTok := p.current()
		if endTok.Type != TokenCell {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("expected cell reference after ':' at position %d", endTok.Pos))
		}
		to, err := ParseCellAddress(endTok.Value)
		if err != nil {
			return nil, NewCellError(ErrorKindParse,
				fmt.Sprintf("invalid cell reference %q at position %d", endTok.Value, endTok.Pos))
		}
		p.pos++
		return &RangeRefNode{R: Range{From: from, To: to}}, nil
	}

	return p.parseComparison()
}
