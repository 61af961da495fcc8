package amrgraph

import (
	"regexp"
	"strings"
)

var (
	// (var / concept
	conceptPattern = regexp.MustCompile(`\(([^/\s]+)\s*/\s*([^\s)]+)`)
	// :relation (var / concept
	relationPattern = regexp.MustCompile(`^:([^(\s]+)\s*\(([^/\s]+)\s*/\s*([^\s)]+)`)
)

// SourceLine is a trimmed, non-blank, non-comment input line.
type SourceLine struct {
	Number int // 1-based line number in the input
	Text   string
}

// SourceLines splits text into physical lines and drops blank and comment lines.
func SourceLines(text string) []SourceLine {
	var lines []SourceLine
	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, SourceLine{Number: i + 1, Text: trimmed})
	}
	return lines
}

// lineKind classifies a source line by its leading character.
type lineKind int

const (
	lineOther lineKind = iota
	lineConcept
	lineRelation
)

func classify(text string) lineKind {
	switch {
	case strings.HasPrefix(text, "("):
		return lineConcept
	case strings.HasPrefix(text, ":"):
		return lineRelation
	default:
		return lineOther
	}
}

// declaration is what the heuristic extracts from one matched line.
type declaration struct {
	Relation string // empty for concept lines
	Variable string
	Concept  string
}

// match extracts the declaration from a line. Returns false if the line is
// skipped by Convert.
func match(text string) (declaration, bool) {
	switch classify(text) {
	case lineConcept:
		m := conceptPattern.FindStringSubmatch(text)
		if m == nil {
			return declaration{}, false
		}
		return declaration{Variable: m[1], Concept: m[2]}, true
	case lineRelation:
		m := relationPattern.FindStringSubmatch(text)
		if m == nil {
			return declaration{}, false
		}
		return declaration{Relation: m[1], Variable: m[2], Concept: m[3]}, true
	default:
		return declaration{}, false
	}
}

// Convert turns AMR text into a graph one line at a time.
//
// A relation line's edge starts at whichever node was last appended before the
// line was processed; parenthesis nesting is ignored. Lines that match neither
// the concept nor the relation pattern are skipped. A relation seen before any
// node registers its target but emits no edge.
func Convert(text string) *Graph {
	g := newGraph()
	reg := newRegistry(g)

	for _, line := range SourceLines(text) {
		decl, ok := match(line.Text)
		if !ok {
			continue
		}
		source, hasSource := g.last()
		target, _ := reg.ensure(decl.Variable, decl.Concept)
		if decl.Relation == "" || !hasSource {
			continue
		}
		g.Edges = append(g.Edges, Edge{From: source, To: target, Label: decl.Relation})
	}
	return g
}
