package graph

// Metrics summarizes one reference graph for reporting.
type Metrics struct {
	Suites          int
	Tests           int
	Targets         int
	Edges           int
	UnresolvedSteps int
	OrphanTargets   int
}

// ComputeMetrics counts nodes by kind, edges, unresolved steps, and targets
// no test references.
func (g *Graph) ComputeMetrics() Metrics {
	m := Metrics{}
	if g == nil {
		return m
	}

	for _, n := range g.Nodes {
		switch n.Kind {
		case KindSuite:
			m.Suites++
		case KindTest:
			m.Tests++
		case KindTarget:
			m.Targets++
		}
		if n.Kind == KindTarget && len(g.reverse[n.ID]) == 0 {
			m.OrphanTargets++
		}
	}
	m.Edges = len(g.Edges)
	m.UnresolvedSteps = g.unresolvedSteps
	return m
}
