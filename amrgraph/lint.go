package amrgraph

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Severity represents the severity level of a lint diagnostic.
type Severity int

const (
	// Error means the text is malformed beyond what either converter can recover.
	Error Severity = iota
	// Warning means part of the text was dropped by the heuristic converter.
	Warning
	// Info is an informational note.
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ERROR":
		*s = Error
	case "WARNING":
		*s = Warning
	case "INFO":
		*s = Info
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Diagnostic is a single lint finding.
type Diagnostic struct {
	Rule     string   `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"` // 1-based, 0 when not tied to a line
	Message  string   `json:"message" yaml:"message"`
	Variable string   `json:"variable,omitempty" yaml:"variable,omitempty"`
	Fix      string   `json:"fix,omitempty" yaml:"fix,omitempty"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", d.Severity, d.Rule, d.Message)
	if d.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", d.Line)
	}
	if d.Variable != "" {
		fmt.Fprintf(&b, " (variable: %s)", d.Variable)
	}
	if d.Fix != "" {
		fmt.Fprintf(&b, " -- fix: %s", d.Fix)
	}
	return b.String()
}

// Document is the input handed to every lint rule.
type Document struct {
	Text      string
	Lines     []SourceLine
	Heuristic *Graph // result of Convert
	Nested    *Graph // result of ConvertNested
}

// NewDocument converts text with both converters.
func NewDocument(text string) *Document {
	return &Document{
		Text:      text,
		Lines:     SourceLines(text),
		Heuristic: Convert(text),
		Nested:    ConvertNested(text),
	}
}

// LintRule is the interface for a single lint rule.
type LintRule interface {
	Name() string
	Apply(doc *Document) []Diagnostic
}

// ValidationError is returned by LintOrError when error-severity diagnostics exist.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		msgs = append(msgs, d.String())
	}
	return fmt.Sprintf("lint failed with %d error(s):\n  %s", len(e.Diagnostics), strings.Join(msgs, "\n  "))
}

// Lint runs all built-in rules (and any extra rules) against the text.
// Returns all diagnostics regardless of severity.
func Lint(text string, extraRules ...LintRule) []Diagnostic {
	return LintDocument(NewDocument(text), extraRules...)
}

// LintDocument is Lint for an already converted document.
func LintDocument(doc *Document, extraRules ...LintRule) []Diagnostic {
	rules := builtInRules()
	rules = append(rules, extraRules...)

	var diagnostics []Diagnostic
	for _, rule := range rules {
		diagnostics = append(diagnostics, rule.Apply(doc)...)
	}
	return diagnostics
}

// LintOrError runs Lint and returns an error if any error-severity diagnostics
// are found. Non-error diagnostics are still returned.
func LintOrError(text string, extraRules ...LintRule) ([]Diagnostic, error) {
	diagnostics := Lint(text, extraRules...)

	var errs []Diagnostic
	for _, d := range diagnostics {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	if len(errs) > 0 {
		return diagnostics, &ValidationError{Diagnostics: errs}
	}
	return diagnostics, nil
}

func builtInRules() []LintRule {
	return []LintRule{
		unrecognizedLineRule{},
		orphanRelationRule{},
		unbalancedParensRule{},
		conceptConflictRule{},
		droppedRelationsRule{},
		heuristicDivergenceRule{},
	}
}

// --- Rule: unrecognized_line ---

type unrecognizedLineRule struct{}

func (unrecognizedLineRule) Name() string { return "unrecognized_line" }

func (r unrecognizedLineRule) Apply(doc *Document) []Diagnostic {
	var diags []Diagnostic
	for _, line := range doc.Lines {
		if _, ok := match(line.Text); ok {
			continue
		}
		diags = append(diags, Diagnostic{
			Rule:     r.Name(),
			Severity: Warning,
			Line:     line.Number,
			Message:  fmt.Sprintf("line %q matches neither a concept nor a relation and was skipped", truncate(line.Text, 40)),
			Fix:      `start the line with "(var / concept" or ":role (var / concept"`,
		})
	}
	return diags
}

// --- Rule: orphan_relation ---

type orphanRelationRule struct{}

func (orphanRelationRule) Name() string { return "orphan_relation" }

func (r orphanRelationRule) Apply(doc *Document) []Diagnostic {
	for _, line := range doc.Lines {
		decl, ok := match(line.Text)
		if !ok {
			continue
		}
		if decl.Relation == "" {
			return nil
		}
		// The first matched line is a relation: it has no source node.
		return []Diagnostic{{
			Rule:     r.Name(),
			Severity: Warning,
			Line:     line.Number,
			Message:  fmt.Sprintf("relation :%s appears before any concept and produces no edge", decl.Relation),
			Variable: decl.Variable,
			Fix:      "declare the root concept on a line starting with \"(\" first",
		}}
	}
	return nil
}

// --- Rule: unbalanced_parens ---

type unbalancedParensRule struct{}

func (unbalancedParensRule) Name() string { return "unbalanced_parens" }

func (r unbalancedParensRule) Apply(doc *Document) []Diagnostic {
	lex := NewLexer([]byte(doc.Text))
	depth := 0
	for {
		tok := lex.Next()
		switch tok.Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth < 0 {
				return []Diagnostic{{
					Rule:     r.Name(),
					Severity: Error,
					Line:     tok.Pos.Line,
					Message:  "closing parenthesis has no matching opening parenthesis",
				}}
			}
		case TokenEOF:
			if depth > 0 {
				return []Diagnostic{{
					Rule:     r.Name(),
					Severity: Error,
					Message:  fmt.Sprintf("%d parenthesis(es) left open at end of input", depth),
				}}
			}
			return nil
		}
	}
}

// --- Rule: concept_conflict ---

type conceptConflictRule struct{}

func (conceptConflictRule) Name() string { return "concept_conflict" }

func (r conceptConflictRule) Apply(doc *Document) []Diagnostic {
	var diags []Diagnostic
	concepts := make(map[string]string)
	for _, line := range doc.Lines {
		decl, ok := match(line.Text)
		if !ok {
			continue
		}
		prev, seen := concepts[decl.Variable]
		if !seen {
			concepts[decl.Variable] = decl.Concept
			continue
		}
		if prev != decl.Concept {
			diags = append(diags, Diagnostic{
				Rule:     r.Name(),
				Severity: Warning,
				Line:     line.Number,
				Message:  fmt.Sprintf("variable re-declared as %q; the node keeps its first concept %q", decl.Concept, prev),
				Variable: decl.Variable,
			})
		}
	}
	return diags
}

// --- Rule: dropped_relations ---

// embeddedRelation finds ":role (" anywhere in a line.
var embeddedRelation = regexp.MustCompile(`:[^(\s:]+\s*\(`)

type droppedRelationsRule struct{}

func (droppedRelationsRule) Name() string { return "dropped_relations" }

func (r droppedRelationsRule) Apply(doc *Document) []Diagnostic {
	var diags []Diagnostic
	for _, line := range doc.Lines {
		decl, ok := match(line.Text)
		if !ok {
			continue
		}
		dropped := len(embeddedRelation.FindAllStringIndex(line.Text, -1))
		if decl.Relation != "" {
			dropped-- // the leading relation is kept
		}
		if dropped <= 0 {
			continue
		}
		diags = append(diags, Diagnostic{
			Rule:     r.Name(),
			Severity: Warning,
			Line:     line.Number,
			Message:  fmt.Sprintf("%d nested relation(s) on this line are ignored by the heuristic converter", dropped),
			Fix:      "put each relation on its own line, or use nested mode",
		})
	}
	return diags
}

// --- Rule: heuristic_divergence ---

type heuristicDivergenceRule struct{}

func (heuristicDivergenceRule) Name() string { return "heuristic_divergence" }

func (r heuristicDivergenceRule) Apply(doc *Document) []Diagnostic {
	heuristic := variableEdges(doc.Heuristic)
	nested := variableEdges(doc.Nested)

	var missing, extra []string
	for key := range nested {
		if !heuristic[key] {
			missing = append(missing, key)
		}
	}
	for key := range heuristic {
		if !nested[key] {
			extra = append(extra, key)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(extra)

	var b strings.Builder
	fmt.Fprintf(&b, "line-based edges differ from nesting: %d missing, %d unexpected", len(missing), len(extra))
	if len(missing) > 0 {
		fmt.Fprintf(&b, "; missing %s", strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		fmt.Fprintf(&b, "; unexpected %s", strings.Join(extra, ", "))
	}
	return []Diagnostic{{
		Rule:     r.Name(),
		Severity: Info,
		Message:  b.String(),
	}}
}

// variableEdges keys every edge between two variable nodes as "from :role to".
func variableEdges(g *Graph) map[string]bool {
	keys := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		from, to := g.NodeByID(e.From), g.NodeByID(e.To)
		if from == nil || to == nil || from.Constant || to.Constant {
			continue
		}
		keys[from.Variable()+" :"+e.Label+" "+to.Variable()] = true
	}
	return keys
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
