// Package visnet shapes a converted graph into the payload consumed by a
// vis-network style force-directed graph widget.
package visnet

import "github.com/martinemde/amrviz/amrgraph"

// Payload is the graph plus rendering options handed to the widget.
type Payload struct {
	Graph   Graph   `json:"graph" yaml:"graph"`
	Options Options `json:"options" yaml:"options"`
}

// Graph holds the widget's node and edge lists.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is a widget node. Shape is only set for constant leaves.
type Node struct {
	ID    int    `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Shape string `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// Edge is a widget edge.
type Edge struct {
	From  int    `json:"from" yaml:"from"`
	To    int    `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// Options mirrors the subset of widget options the application sets.
type Options struct {
	Layout  Layout      `json:"layout" yaml:"layout"`
	Edges   EdgeOptions `json:"edges" yaml:"edges"`
	Physics Physics     `json:"physics" yaml:"physics"`
}

// Layout selects free or hierarchical node placement.
type Layout struct {
	Hierarchical bool `json:"hierarchical" yaml:"hierarchical"`
}

// EdgeOptions styles every edge.
type EdgeOptions struct {
	Color  string `json:"color" yaml:"color"`
	Arrows Arrows `json:"arrows" yaml:"arrows"`
}

// Arrows picks which edge ends get arrow heads.
type Arrows struct {
	To Toggle `json:"to" yaml:"to"`
}

// Toggle switches a single option on or off.
type Toggle struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Physics turns the force simulation on or off.
type Physics struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// ConstantShape is the node shape used for literal leaves.
const ConstantShape = "box"

// DefaultOptions returns free layout, black edges with arrow heads, and physics on.
func DefaultOptions() Options {
	return Options{
		Layout: Layout{Hierarchical: false},
		Edges: EdgeOptions{
			Color:  "#000000",
			Arrows: Arrows{To: Toggle{Enabled: true}},
		},
		Physics: Physics{Enabled: true},
	}
}

// FromGraph builds a payload. A nil graph yields empty node and edge lists.
func FromGraph(g *amrgraph.Graph, opts Options) Payload {
	p := Payload{
		Graph:   Graph{Nodes: []Node{}, Edges: []Edge{}},
		Options: opts,
	}
	if g == nil {
		return p
	}
	for _, n := range g.Nodes {
		node := Node{ID: n.ID, Label: n.Label}
		if n.Constant {
			node.Shape = ConstantShape
		}
		p.Graph.Nodes = append(p.Graph.Nodes, node)
	}
	for _, e := range g.Edges {
		p.Graph.Edges = append(p.Graph.Edges, Edge{From: e.From, To: e.To, Label: e.Label})
	}
	return p
}
