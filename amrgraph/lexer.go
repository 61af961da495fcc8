package amrgraph

import "strings"

// Lexer tokenizes PENMAN text. It never fails: an unterminated string runs to
// the end of input.
type Lexer struct {
	src    []byte
	pos    int // current byte offset
	line   int // current line (1-based)
	col    int // current column (1-based)
	peeked *Token
}

// NewLexer creates a new Lexer for the given source bytes.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if l.peeked != nil {
		return *l.peeked
	}
	tok := l.scan()
	l.peeked = &tok
	return tok
}

// Next returns the next token and advances the lexer.
func (l *Lexer) Next() Token {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok
	}
	return l.scan()
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case isSpace(ch):
			l.advance()
		case ch == '#':
			// Comment: skip to end of line
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) scan() Token {
	l.skipWhitespaceAndComments()

	if l.atEnd() {
		return Token{Kind: TokenEOF, Pos: l.currentPos()}
	}

	pos := l.currentPos()
	switch l.peek() {
	case '(':
		l.advance()
		return Token{Kind: TokenLParen, Literal: "(", Pos: pos}
	case ')':
		l.advance()
		return Token{Kind: TokenRParen, Literal: ")", Pos: pos}
	case '/':
		l.advance()
		return Token{Kind: TokenSlash, Literal: "/", Pos: pos}
	case '"':
		return l.scanString()
	case ':':
		l.advance() // consume :
		return Token{Kind: TokenRole, Literal: l.scanSymbolText(false), Pos: pos}
	}
	return Token{Kind: TokenSymbol, Literal: l.scanSymbolText(true), Pos: pos}
}

func (l *Lexer) scanString() Token {
	pos := l.currentPos()
	l.advance() // consume opening "

	var sb strings.Builder
	for !l.atEnd() {
		ch := l.advance()
		if ch == '"' {
			break
		}
		if ch == '\\' && !l.atEnd() {
			sb.WriteByte(l.advance())
			continue
		}
		sb.WriteByte(ch)
	}
	return Token{Kind: TokenString, Literal: sb.String(), Pos: pos}
}

// scanSymbolText reads a symbol or role name. With innerColons set, a colon
// after the first character stays in the symbol, so 12:30 is one constant; a
// role still needs whitespace or a parenthesis before its colon.
func (l *Lexer) scanSymbolText(innerColons bool) string {
	start := l.pos
	for !l.atEnd() {
		ch := l.peek()
		if !isSymbolPart(ch) && !(innerColons && ch == ':' && l.pos > start) {
			break
		}
		l.advance()
	}
	return string(l.src[start:l.pos])
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isSymbolPart(ch byte) bool {
	switch ch {
	case '(', ')', '/', '"', ':':
		return false
	}
	return !isSpace(ch)
}
