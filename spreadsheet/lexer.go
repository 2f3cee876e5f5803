package spreadsheet

import "fmt"

// TokenType classifies lexical tokens in a formula body.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenBoolean
	TokenCell
	TokenIdent
	TokenOp
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenColon
)

// character classification constants. slightly easier to read.
const (
	charNull     = 0
	charTab      = '\t'
	charSpace    = ' '
	charQuote    = '"'
	charLParen   = '('
	charRParen   = ')'
	charAsterisk = '*'
	charPlus     = '+'
	charComma    = ','
	charMinus    = '-'
	charPeriod   = '.'
	charSlash    = '/'
	charColon    = ':'
	charLess     = '<'
	charEqual    = '='
	charGreater  = '>'
	charCaret    = '^'
)

// Token is a lexical token with its position in the formula body.
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in input, after the '=' prefix
}

// Lexer tokenizes a formula body (the text after the leading '=').
type Lexer struct {
	runes []rune
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{runes: []rune(input)}
}

// Tokenize scans the whole input. The returned slice always ends with a
// TokenEOF on success; any failure is reported as a lex error value.
func (l *Lexer) Tokenize() ([]Token, *CellError) {
	var tokens []Token
	for {
		tok, lexErr := l.nextToken()
		if lexErr != nil {
			return nil, lexErr
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) nextToken() (Token, *CellError) {
	l.skipWhitespace()

	if l.pos >= len(l.runes) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	startPos := l.pos
	ch := l.current()

	if ch == charQuote {
		return l.scanString()
	}

	if isDigit(ch) || (ch == charPeriod && isDigit(l.peek(1))) {
		return l.scanNumber(), nil
	}

	switch ch {
	case charLParen:
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: startPos}, nil
	case charRParen:
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: startPos}, nil
	case charComma:
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: startPos}, nil
	case charColon:
		l.pos++
		return Token{Type: TokenColon, Value: ":", Pos: startPos}, nil
	case charPlus, charMinus, charAsterisk, charSlash, charCaret, charEqual:
		l.pos++
		return Token{Type: TokenOp, Value: string(ch), Pos: startPos}, nil
	case charLess:
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenOp, Value: "<=", Pos: startPos}, nil
		}
		if l.current() == charGreater {
			l.pos++
			return Token{Type: TokenOp, Value: "<>", Pos: startPos}, nil
		}
		return Token{Type: TokenOp, Value: "<", Pos: startPos}, nil
	case charGreater:
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenOp, Value: ">=", Pos: startPos}, nil
		}
		return Token{Type: TokenOp, Value: ">", Pos: startPos}, nil
	}

	if ch >= 'A' && ch <= 'Z' {
		return l.scanUpperWord()
	}
	if ch >= 'a' && ch <= 'z' {
		return l.scanIdentifier(), nil
	}

	return Token{}, NewCellError(ErrorKindLex,
		fmt.Sprintf("unexpected character %q at position %d", string(ch), startPos))
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos >= len(l.runes) || pos < 0 {
		return charNull
	}
	return l.runes[pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab {
			l.pos++
		} else {
			break
		}
	}
}

func (l *Lexer) substring(start, end int) string {
	return string(l.runes[start:end])
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlphaNumeric(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// scanNumber scans a number including decimals and scientific notation.
func (l *Lexer) scanNumber() Token {
	startPos := l.pos

	for isDigit(l.current()) {
		l.pos++
	}

	if l.current() == charPeriod && isDigit(l.peek(1)) {
		l.pos++ // consume '.'
		for isDigit(l.current()) {
			l.pos++
		}
	}

	// scientific notation, only if digits actually follow the exponent
	if l.current() == 'e' || l.current() == 'E' {
		savedPos := l.pos
		l.pos++
		if l.current() == charPlus || l.current() == charMinus {
			l.pos++
		}
		if !isDigit(l.current()) {
			l.pos = savedPos
		} else {
			for isDigit(l.current()) {
				l.pos++
			}
		}
	}

	return Token{Type: TokenNumber, Value: l.substring(startPos, l.pos), Pos: startPos}
}

// scanString scans a double-quoted string literal. No escape sequences:
// the literal ends at the first closing quote.
func (l *Lexer) scanString() (Token, *CellError) {
	startPos := l.pos
	l.pos++ // consume opening quote

	contentStart := l.pos
	for l.pos < len(l.runes) {
		if l.current() == charQuote {
			value := l.substring(contentStart, l.pos)
			l.pos++ // consume closing quote
			return Token{Type: TokenString, Value: value, Pos: startPos}, nil
		}
		l.pos++
	}

	return Token{}, NewCellError(ErrorKindLex,
		fmt.Sprintf("unterminated string literal at position %d", startPos))
}

// scanUpperWord scans an uppercase-initial word: a cell reference like A1,
// or the literals TRUE/FALSE. Anything else spelled with an uppercase
// start is not in the grammar.
func (l *Lexer) scanUpperWord() (Token, *CellError) {
	startPos := l.pos

	for l.current() >= 'A' && l.current() <= 'Z' {
		l.pos++
	}

	if isDigit(l.current()) {
		digitStart := l.pos
		for isDigit(l.current()) {
			l.pos++
		}
		if isAlphaNumeric(l.current()) || l.current() == '_' {
			// trailing garbage like A1B; fall through to the error below
			for isAlphaNumeric(l.current()) || l.current() == '_' {
				l.pos++
			}
		} else if l.runes[digitStart] != '0' {
			return Token{Type: TokenCell, Value: l.substring(startPos, l.pos), Pos: startPos}, nil
		}
		return Token{}, NewCellError(ErrorKindLex,
			fmt.Sprintf("invalid cell reference %q at position %d", l.substring(startPos, l.pos), startPos))
	}

	word := l.substring(startPos, l.pos)
	if word == "TRUE" || word == "FALSE" {
		return Token{Type: TokenBoolean, Value: word, Pos: startPos}, nil
	}

	// collect the rest of the word for the error message
	for isAlphaNumeric(l.current()) || l.current() == '_' {
		l.pos++
	}
	return Token{}, NewCellError(ErrorKindLex,
		fmt.Sprintf("unrecognized identifier %q at position %d", l.substring(startPos, l.pos), startPos))
}

// scanIdentifier scans a lowercase-initial identifier (a function name).
func (l *Lexer) scanIdentifier() Token {
	startPos := l.pos
	for isAlphaNumeric(l.current()) || l.current() == '_' {
		l.pos++
	}
	return Token{Type: TokenIdent, Value: l.substring(startPos, l.pos), Pos: startPos}
}
