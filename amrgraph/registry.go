package amrgraph

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// registry maps variable names to node IDs in insertion order. The insertion
// index of a variable is its node ID.
type registry struct {
	ids   *orderedmap.OrderedMap[string, int]
	graph *Graph
}

func newRegistry(g *Graph) *registry {
	return &registry{
		ids:   orderedmap.New[string, int](),
		graph: g,
	}
}

// lookup returns the node ID registered for a variable.
func (r *registry) lookup(variable string) (int, bool) {
	return r.ids.Get(variable)
}

// ensure registers a variable if it does not already exist and appends its node.
// Returns the node ID and whether the node was created.
func (r *registry) ensure(variable, concept string) (int, bool) {
	if id, ok := r.ids.Get(variable); ok {
		return id, false
	}
	return r.add(variable, Node{Label: variable + labelSep + concept}), true
}

// constant appends a literal leaf node. Constants are never shared, so each one
// gets a key that cannot collide with a variable name (variables hold no spaces).
func (r *registry) constant(literal string) int {
	key := " const " + strconv.Itoa(r.ids.Len())
	return r.add(key, Node{Label: literal, Constant: true})
}

func (r *registry) add(key string, n Node) int {
	n.ID = r.ids.Len()
	r.ids.Set(key, n.ID)
	r.graph.Nodes = append(r.graph.Nodes, n)
	return n.ID
}
