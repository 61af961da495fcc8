package amrgraph

// Position tracks a source location for diagnostics.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset into source
}

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF    TokenKind = iota
	TokenLParen           // (
	TokenRParen           // )
	TokenSlash            // /
	TokenRole             // :ARG0, literal excludes the colon
	TokenSymbol           // variable, concept, or bare constant
	TokenString           // "..." with escape processing
)

var tokenNames = map[TokenKind]string{
	TokenEOF:    "EOF",
	TokenLParen: "'('",
	TokenRParen: "')'",
	TokenSlash:  "'/'",
	TokenRole:   "role",
	TokenSymbol: "symbol",
	TokenString: "string",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind    TokenKind
	Literal string // text content (decoded for strings, raw for others)
	Pos     Position
}
