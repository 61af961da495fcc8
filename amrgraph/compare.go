package amrgraph

import "sort"

// Comparison lists what two graphs share and what each has alone. Nodes are
// keyed by concept and edges by "<source concept> :<role> <target concept>",
// so variable naming does not matter. Repeated keys are matched one for one.
type Comparison struct {
	CommonNodes []string        `json:"common_nodes" yaml:"common_nodes"`
	AOnlyNodes  []string        `json:"a_only_nodes" yaml:"a_only_nodes"`
	BOnlyNodes  []string        `json:"b_only_nodes" yaml:"b_only_nodes"`
	CommonEdges []string        `json:"common_edges" yaml:"common_edges"`
	AOnlyEdges  []string        `json:"a_only_edges" yaml:"a_only_edges"`
	BOnlyEdges  []string        `json:"b_only_edges" yaml:"b_only_edges"`
	Stats       ComparisonStats `json:"statistics" yaml:"statistics"`
}

// ComparisonStats counts the entries of a Comparison and scores the overlap.
// Nodes and edges together are the triples being scored: precision is measured
// against b and recall against a.
type ComparisonStats struct {
	CommonNodes int     `json:"common_nodes" yaml:"common_nodes"`
	AOnlyNodes  int     `json:"a_only_nodes" yaml:"a_only_nodes"`
	BOnlyNodes  int     `json:"b_only_nodes" yaml:"b_only_nodes"`
	CommonEdges int     `json:"common_edges" yaml:"common_edges"`
	AOnlyEdges  int     `json:"a_only_edges" yaml:"a_only_edges"`
	BOnlyEdges  int     `json:"b_only_edges" yaml:"b_only_edges"`
	Precision   float64 `json:"precision" yaml:"precision"`
	Recall      float64 `json:"recall" yaml:"recall"`
	F1          float64 `json:"f1" yaml:"f1"`
}

// score fills Precision, Recall and F1 from the counts. Two empty graphs score
// 1 and a single empty graph scores 0.
func (s *ComparisonStats) score() {
	common := s.CommonNodes + s.CommonEdges
	inA := common + s.AOnlyNodes + s.AOnlyEdges
	inB := common + s.BOnlyNodes + s.BOnlyEdges
	switch {
	case inA == 0 && inB == 0:
		s.Precision, s.Recall, s.F1 = 1, 1, 1
		return
	case inA == 0 || inB == 0:
		s.Precision, s.Recall, s.F1 = 0, 0, 0
		return
	}
	s.Precision = float64(common) / float64(inB)
	s.Recall = float64(common) / float64(inA)
	if s.Precision+s.Recall == 0 {
		s.F1 = 0
		return
	}
	s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
}

// Compare matches the concepts and relations of two graphs.
func Compare(a, b *Graph) *Comparison {
	c := &Comparison{}
	c.CommonNodes, c.AOnlyNodes, c.BOnlyNodes = diffKeys(nodeKeys(a), nodeKeys(b))
	c.CommonEdges, c.AOnlyEdges, c.BOnlyEdges = diffKeys(edgeKeys(a), edgeKeys(b))
	c.Stats = ComparisonStats{
		CommonNodes: len(c.CommonNodes),
		AOnlyNodes:  len(c.AOnlyNodes),
		BOnlyNodes:  len(c.BOnlyNodes),
		CommonEdges: len(c.CommonEdges),
		AOnlyEdges:  len(c.AOnlyEdges),
		BOnlyEdges:  len(c.BOnlyEdges),
	}
	c.Stats.score()
	return c
}

// DefaultConsistencyThreshold is the share of summary triples that must appear
// in the sources for a summary to count as consistent.
const DefaultConsistencyThreshold = 0.8

// ConsistencyResult reports how well a summary graph is supported by its sources.
type ConsistencyResult struct {
	Consistent bool    `json:"consistent" yaml:"consistent"`
	Score      float64 `json:"score" yaml:"score"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
}

// Consistency returns the share of distinct summary triples (concepts and
// concept-keyed relations) found in any of the sources, and whether it reaches
// threshold. An empty summary scores 1.
func Consistency(summary *Graph, sources []*Graph, threshold float64) (bool, float64) {
	claims := make(map[string]bool)
	for _, k := range tripleKeys(summary) {
		claims[k] = true
	}
	if len(claims) == 0 {
		return 1 >= threshold, 1
	}

	known := make(map[string]bool)
	for _, src := range sources {
		for _, k := range tripleKeys(src) {
			known[k] = true
		}
	}
	supported := 0
	for k := range claims {
		if known[k] {
			supported++
		}
	}
	score := float64(supported) / float64(len(claims))
	return score >= threshold, score
}

// CheckConsistency is Consistency packaged as a ConsistencyResult.
func CheckConsistency(summary *Graph, sources []*Graph, threshold float64) ConsistencyResult {
	ok, score := Consistency(summary, sources, threshold)
	return ConsistencyResult{Consistent: ok, Score: score, Threshold: threshold}
}

// tripleKeys lists node keys as ":instance <concept>" followed by edge keys.
func tripleKeys(g *Graph) []string {
	if g == nil {
		return nil
	}
	keys := make([]string, 0, len(g.Nodes)+len(g.Edges))
	for _, k := range nodeKeys(g) {
		keys = append(keys, ":instance "+k)
	}
	return append(keys, edgeKeys(g)...)
}

func nodeKeys(g *Graph) []string {
	keys := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		keys = append(keys, n.Concept())
	}
	return keys
}

func edgeKeys(g *Graph) []string {
	keys := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		from, to := g.NodeByID(e.From), g.NodeByID(e.To)
		if from == nil || to == nil {
			continue
		}
		keys = append(keys, from.Concept()+" :"+e.Label+" "+to.Concept())
	}
	return keys
}

// diffKeys splits two key multisets into common, a-only and b-only, each sorted.
func diffKeys(a, b []string) (common, aOnly, bOnly []string) {
	remaining := make(map[string]int, len(b))
	for _, k := range b {
		remaining[k]++
	}
	common, aOnly = []string{}, []string{}
	for _, k := range a {
		if remaining[k] > 0 {
			remaining[k]--
			common = append(common, k)
			continue
		}
		aOnly = append(aOnly, k)
	}
	bOnly = []string{}
	for _, k := range b {
		if remaining[k] > 0 {
			remaining[k]--
			bOnly = append(bOnly, k)
		}
	}
	sort.Strings(common)
	sort.Strings(aOnly)
	sort.Strings(bOnly)
	return common, aOnly, bOnly
}
