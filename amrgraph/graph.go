package amrgraph

import "strings"

// labelSep joins a variable and its concept in a node label.
const labelSep = " / "

// Node is a graph vertex. ID is the zero-based order of first appearance.
type Node struct {
	ID       int    `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Constant bool   `json:"constant,omitempty" yaml:"constant,omitempty"` // literal leaf, nested converter only
}

// Variable returns the variable part of the label, or the whole label for constants.
func (n Node) Variable() string {
	if n.Constant {
		return n.Label
	}
	v, _, _ := strings.Cut(n.Label, labelSep)
	return v
}

// Concept returns the concept part of the label, or the whole label for constants.
func (n Node) Concept() string {
	if n.Constant {
		return n.Label
	}
	if _, c, ok := strings.Cut(n.Label, labelSep); ok {
		return c
	}
	return n.Label
}

// Edge is a directed relation between two node IDs.
type Edge struct {
	From  int    `json:"from" yaml:"from"`
	To    int    `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// Graph is the converted representation of an AMR text.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"` // in order of first appearance
	Edges []Edge `json:"edges" yaml:"edges"` // in order of appearance
}

func newGraph() *Graph {
	return &Graph{Nodes: []Node{}, Edges: []Edge{}}
}

// NodeByID returns the node with the given ID, or nil if not found.
func (g *Graph) NodeByID(id int) *Node {
	if id < 0 || id >= len(g.Nodes) {
		return nil
	}
	return &g.Nodes[id]
}

// EdgesFrom returns all edges originating from the given node ID.
func (g *Graph) EdgesFrom(id int) []Edge {
	var result []Edge
	for _, e := range g.Edges {
		if e.From == id {
			result = append(result, e)
		}
	}
	return result
}

// EdgesTo returns all edges targeting the given node ID.
func (g *Graph) EdgesTo(id int) []Edge {
	var result []Edge
	for _, e := range g.Edges {
		if e.To == id {
			result = append(result, e)
		}
	}
	return result
}

// last returns the ID of the most recently appended node.
func (g *Graph) last() (int, bool) {
	if len(g.Nodes) == 0 {
		return 0, false
	}
	return g.Nodes[len(g.Nodes)-1].ID, true
}
