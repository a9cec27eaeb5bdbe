package graph

import (
	"testmig/internal/ir"
)

// Node kinds.
const (
	KindSuite  = "suite"
	KindTest   = "test"
	KindTarget = "target"
)

// Edge kinds.
const (
	EdgeContains = "contains" // suite -> test membership
	EdgeUses     = "uses"     // test -> target, from a resolved step
)

// Node is one IR entity in the reference graph.
type Node struct {
	ID   string
	Kind string
	Name string
}

// Edge is a directed reference between two entities.
type Edge struct {
	From string
	To   string
	Kind string
}

// Graph is the suite/test/target reference graph of one IR document.
// Adjacency lists keep insertion order, which follows document order, so
// walks over the same document always visit nodes identically.
type Graph struct {
	Nodes map[string]Node
	Edges []Edge

	adjacency map[string][]string
	reverse   map[string][]string

	unresolvedSteps int
}

func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[string]Node),
		Edges:     []Edge{},
		adjacency: make(map[string][]string),
		reverse:   make(map[string][]string),
	}
}

// FromDocument builds the reference graph of a document: suites contain
// tests, tests use the targets their resolved steps point at. Steps without
// a resolved target contribute to the unresolved count instead of an edge.
func FromDocument(doc *ir.Document) *Graph {
	g := NewGraph()
	if doc == nil {
		return g
	}

	for _, suite := range doc.Suites {
		g.addNode(Node{ID: suite.ID, Kind: KindSuite, Name: suite.Name})
	}
	for _, test := range doc.Tests {
		g.addNode(Node{ID: test.ID, Kind: KindTest, Name: test.Name})
	}
	for _, target := range doc.Targets {
		g.addNode(Node{ID: target.ID, Kind: KindTarget, Name: target.Name})
	}

	for _, suite := range doc.Suites {
		for _, testID := range suite.Tests {
			g.addEdge(Edge{From: suite.ID, To: testID, Kind: EdgeContains})
		}
	}
	for _, test := range doc.Tests {
		for _, step := range test.Steps {
			if step.TargetID == nil {
				if step.TargetNameID != nil {
					g.unresolvedSteps++
				}
				continue
			}
			g.addEdge(Edge{From: test.ID, To: *step.TargetID, Kind: EdgeUses})
		}
	}
	return g
}

func (g *Graph) addNode(n Node) {
	g.Nodes[n.ID] = n
}

// addEdge records the edge once; repeated steps against the same target
// collapse. Edges to entities missing from the document are dropped so every
// walk stays inside the node set.
func (g *Graph) addEdge(e Edge) {
	if _, ok := g.Nodes[e.From]; !ok {
		return
	}
	if _, ok := g.Nodes[e.To]; !ok {
		return
	}
	for _, to := range g.adjacency[e.From] {
		if to == e.To {
			return
		}
	}
	g.Edges = append(g.Edges, e)
	g.adjacency[e.From] = append(g.adjacency[e.From], e.To)
	g.reverse[e.To] = append(g.reverse[e.To], e.From)
}

// Dependencies returns the IDs the given entity points at, in edge order.
func (g *Graph) Dependencies(id string) []string {
	return append([]string{}, g.adjacency[id]...)
}

// Dependents returns the IDs pointing at the given entity, in edge order.
func (g *Graph) Dependents(id string) []string {
	return append([]string{}, g.reverse[id]...)
}

// Node returns the node for id when present.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}
