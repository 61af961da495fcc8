// Package amrgraph converts AMR text in PENMAN notation into a node/edge graph
// for a network visualization.
//
// Two converters are provided:
//
//   - Convert: a line-oriented heuristic. Each line starting with "(" declares a
//     node; each line starting with ":" declares a node and an edge whose source
//     is the node that was last appended before it. Nesting is not tracked.
//   - ConvertNested: a token-based converter that follows parenthesis nesting
//     with a stack of open nodes, resolves re-entrant variables, and turns
//     literal leaves into constant nodes.
//
// Neither converter returns an error. Lines or tokens that cannot be matched are
// skipped and the graph built so far is returned. Lint reports what was skipped.
//
// Usage:
//
//	g := amrgraph.Convert("(s / sentence)\n:ARG1 (t / test-01)")
//	fmt.Println(len(g.Nodes), len(g.Edges)) // 2 1
package amrgraph
