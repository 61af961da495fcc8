package amrgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSingleConcept(t *testing.T) {
	g := Convert("(s / sentence)")
	assert.Equal(t, []Node{{ID: 0, Label: "s / sentence"}}, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestConvertRelation(t *testing.T) {
	g := Convert("(s / sentence)\n:ARG1 (t / test-01)")
	assert.Equal(t, []Node{
		{ID: 0, Label: "s / sentence"},
		{ID: 1, Label: "t / test-01"},
	}, g.Nodes)
	assert.Equal(t, []Edge{{From: 0, To: 1, Label: "ARG1"}}, g.Edges)
}

func TestConvertSkipsUnmatchedLines(t *testing.T) {
	want := Convert("(s / sentence)\n:ARG1 (t / test-01)")
	got := Convert("(s / sentence)\ngarbage text\n:ARG1 (t / test-01)")
	assert.Equal(t, want, got)
}

func TestConvertEmpty(t *testing.T) {
	g := Convert("")
	require.NotNil(t, g)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
}

func TestConvertReusedVariable(t *testing.T) {
	g := Convert("(s / sentence)\n:ARG1 (t / foo)\n:ARG2 (t / foo)")
	assert.Equal(t, []Node{
		{ID: 0, Label: "s / sentence"},
		{ID: 1, Label: "t / foo"},
	}, g.Nodes)
	assert.Equal(t, []Edge{
		{From: 0, To: 1, Label: "ARG1"},
		{From: 1, To: 1, Label: "ARG2"},
	}, g.Edges)
}

func TestConvertEdgeSourceIsLastNodeBeforeLine(t *testing.T) {
	src := `
(w / want-01
    :ARG0 (b / boy)
    :ARG1 (g / go-02)
    :ARG2 (b / boy))
`
	g := Convert(src)
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, []Edge{
		{From: 0, To: 1, Label: "ARG0"}, // w was last
		{From: 1, To: 2, Label: "ARG1"}, // b was last, not w
		{From: 2, To: 1, Label: "ARG2"}, // g was last, b is reused
	}, g.Edges)
}

func TestConvertCommentsAndBlankLines(t *testing.T) {
	src := "# ::snt The boy wants to go.\n\n   \n(s / sentence)\n  # (x / ignored)\n\t\n:ARG1 (t / test-01)\n# :ARG2 (y / nope)"
	assert.Equal(t, Convert("(s / sentence)\n:ARG1 (t / test-01)"), Convert(src))
}

func TestConvertCRLF(t *testing.T) {
	g := Convert("(s / sentence)\r\n:ARG1 (t / test-01)\r\n")
	assert.Equal(t, []Node{
		{ID: 0, Label: "s / sentence"},
		{ID: 1, Label: "t / test-01"},
	}, g.Nodes)
	assert.Len(t, g.Edges, 1)
}

func TestConvertPatternEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		nodes []Node
		edges []Edge
	}{
		{
			name:  "no spaces around slash",
			input: "(s/sentence)",
			nodes: []Node{{ID: 0, Label: "s / sentence"}},
		},
		{
			name:  "concept stops at close paren",
			input: "(d / dog))))",
			nodes: []Node{{ID: 0, Label: "d / dog"}},
		},
		{
			name:  "concept line keeps only the first declaration",
			input: "(s / sentence :ARG1 (t / test-01))",
			nodes: []Node{{ID: 0, Label: "s / sentence"}},
		},
		{
			name:  "missing slash is skipped",
			input: "(s sentence)",
		},
		{
			name:  "relation without paren is skipped",
			input: "(s / sentence)\n:polarity -",
			nodes: []Node{{ID: 0, Label: "s / sentence"}},
		},
		{
			name:  "relation with no space before paren",
			input: "(s / sentence)\n:mod(x / big)",
			nodes: []Node{{ID: 0, Label: "s / sentence"}, {ID: 1, Label: "x / big"}},
			edges: []Edge{{From: 0, To: 1, Label: "mod"}},
		},
		{
			name:  "relation before any node registers without edge",
			input: ":ARG0 (b / boy)\n:ARG1 (g / girl)",
			nodes: []Node{{ID: 0, Label: "b / boy"}, {ID: 1, Label: "g / girl"}},
			edges: []Edge{{From: 0, To: 1, Label: "ARG1"}},
		},
		{
			name:  "lines with other leading characters are ignored",
			input: "x (s / sentence)\n- :ARG1 (t / test)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Convert(tt.input)
			if tt.nodes == nil {
				tt.nodes = []Node{}
			}
			if tt.edges == nil {
				tt.edges = []Edge{}
			}
			assert.Equal(t, tt.nodes, g.Nodes)
			assert.Equal(t, tt.edges, g.Edges)
		})
	}
}

// sampleTexts exercises the invariants below.
var sampleTexts = []string{
	"",
	"(s / sentence)",
	"(s / sentence)\n:ARG1 (t / test-01)",
	"(s / sentence)\n:ARG1 (t / foo)\n:ARG2 (t / foo)",
	"garbage\n:x\n(\n)\n:ARG0 (a / b)\n(a / c)\n:ARG1 (a / d)",
	`# ::snt The boy wants the girl to believe him.
(w / want-01
      :ARG0 (b / boy)
      :ARG1 (b2 / believe-01
            :ARG0 (g / girl)
            :ARG1 b))`,
}

func TestConvertInvariants(t *testing.T) {
	for _, text := range sampleTexts {
		g := Convert(text)

		seen := make(map[string]bool)
		for i, n := range g.Nodes {
			assert.Equal(t, i, n.ID, "ids are dense and ordered")
			assert.False(t, seen[n.Variable()], "duplicate node for %s", n.Variable())
			seen[n.Variable()] = true
			assert.False(t, n.Constant)
		}

		matched := make(map[string]bool)
		for _, line := range SourceLines(text) {
			if decl, ok := match(line.Text); ok {
				matched[decl.Variable] = true
			}
		}
		assert.Len(t, g.Nodes, len(matched), "one node per distinct matched variable in %q", text)

		for _, e := range g.Edges {
			assert.NotNil(t, g.NodeByID(e.From), "dangling from in %q", text)
			assert.NotNil(t, g.NodeByID(e.To), "dangling to in %q", text)
		}
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	for _, text := range sampleTexts {
		if diff := cmp.Diff(Convert(text), Convert(text)); diff != "" {
			t.Errorf("Convert(%q) not stable (-first +second):\n%s", text, diff)
		}
	}
}

func TestSourceLines(t *testing.T) {
	lines := SourceLines("# c\n(a / b)\n\n  :x (c / d)  \n")
	assert.Equal(t, []SourceLine{
		{Number: 2, Text: "(a / b)"},
		{Number: 4, Text: ":x (c / d)"},
	}, lines)
}

func TestGraphLookups(t *testing.T) {
	g := Convert("(w / want-01)\n:ARG0 (b / boy)\n:ARG1 (g / go-02)")
	require.NotNil(t, g.NodeByID(1))
	assert.Equal(t, "b", g.NodeByID(1).Variable())
	assert.Equal(t, "boy", g.NodeByID(1).Concept())
	assert.Nil(t, g.NodeByID(3))
	assert.Nil(t, g.NodeByID(-1))

	assert.Len(t, g.EdgesFrom(0), 1)
	assert.Len(t, g.EdgesFrom(1), 1)
	assert.Empty(t, g.EdgesFrom(2))
	assert.Len(t, g.EdgesTo(2), 1)
	assert.Empty(t, g.EdgesTo(0))
}
