package amrgraph

// noScope marks an open parenthesis whose declaration could not be matched.
const noScope = -1

// ConvertNested turns AMR text into a graph by following parenthesis nesting.
//
// Each relation starts at the innermost open node. A relation whose value is a
// known variable adds an edge to that variable's node. Any other bare value or
// quoted string becomes a constant node. Several top-level graphs may appear in
// one text. Unbalanced or malformed input yields the graph built so far.
func ConvertNested(text string) *Graph {
	g := newGraph()
	p := &nestedParser{
		lex:   NewLexer([]byte(text)),
		reg:   newRegistry(g),
		graph: g,
	}
	p.run()
	return g
}

type nestedParser struct {
	lex   *Lexer
	reg   *registry
	graph *Graph
	stack []int // open node IDs, innermost last
	role  string
}

func (p *nestedParser) run() {
	for {
		tok := p.lex.Next()
		switch tok.Kind {
		case TokenEOF:
			return
		case TokenLParen:
			p.open()
		case TokenRParen:
			p.close()
		case TokenRole:
			p.role = tok.Literal
		case TokenSymbol:
			p.leaf(tok.Literal, false)
		case TokenString:
			p.leaf(tok.Literal, true)
		default:
			// Stray slash.
			p.role = ""
		}
	}
}

// open handles "(var / concept". The scope is pushed even when the declaration
// does not match so that its closing parenthesis stays paired.
func (p *nestedParser) open() {
	variable, concept, ok := p.declaration()
	if !ok {
		p.role = ""
		p.stack = append(p.stack, noScope)
		return
	}
	id, _ := p.reg.ensure(variable, concept)
	p.link(id)
	p.stack = append(p.stack, id)
}

func (p *nestedParser) declaration() (string, string, bool) {
	if p.lex.Peek().Kind != TokenSymbol {
		return "", "", false
	}
	variable := p.lex.Next().Literal
	if p.lex.Peek().Kind != TokenSlash {
		return "", "", false
	}
	p.lex.Next()
	switch tok := p.lex.Peek(); tok.Kind {
	case TokenSymbol, TokenString:
		p.lex.Next()
		return variable, tok.Literal, true
	}
	return "", "", false
}

func (p *nestedParser) close() {
	p.role = ""
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// leaf handles a relation value that is not a parenthesized node.
func (p *nestedParser) leaf(literal string, quoted bool) {
	if p.role == "" {
		return
	}
	if _, ok := p.parent(); !ok {
		p.role = ""
		return
	}
	if !quoted {
		if id, ok := p.reg.lookup(literal); ok {
			p.link(id)
			return
		}
	}
	p.link(p.reg.constant(literal))
}

// link appends an edge from the innermost open node to id if a role is pending.
func (p *nestedParser) link(id int) {
	role := p.role
	p.role = ""
	if role == "" {
		return
	}
	parent, ok := p.parent()
	if !ok {
		return
	}
	p.graph.Edges = append(p.graph.Edges, Edge{From: parent, To: id, Label: role})
}

func (p *nestedParser) parent() (int, bool) {
	if len(p.stack) == 0 {
		return 0, false
	}
	top := p.stack[len(p.stack)-1]
	return top, top != noScope
}
