package report

import (
	"fmt"
	"strings"

	"testmig/internal/graph"
)

// mermaidRenderer draws the reference graph as a Mermaid flowchart.
type mermaidRenderer struct{}

// Flowchart lays out suite, test, and target nodes with their contains and
// uses edges. Nodes enter in edge order, which follows document order, so
// the diagram is stable across regenerations of the same document.
func (m *mermaidRenderer) Flowchart(refs *graph.Graph) string {
	if refs == nil || len(refs.Edges) == 0 {
		return "No suite, test, or target references to draw.\n"
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")

	declared := map[string]bool{}
	for _, e := range refs.Edges {
		for _, id := range []string{e.From, e.To} {
			if declared[id] {
				continue
			}
			declared[id] = true
			n, _ := refs.Node(id)
			fmt.Fprintf(&sb, "    %s[%q]\n", mermaidNodeID(n), n.Name)
		}
	}
	for _, e := range refs.Edges {
		from, _ := refs.Node(e.From)
		to, _ := refs.Node(e.To)
		fmt.Fprintf(&sb, "    %s --> %s\n", mermaidNodeID(from), mermaidNodeID(to))
	}
	sb.WriteString("```\n")
	return sb.String()
}

// FlowchartSubset draws only the entities in ids and the edges among them.
// Every listed entity is declared, so a changed target no test covers still
// appears as an isolated node.
func (m *mermaidRenderer) FlowchartSubset(refs *graph.Graph, ids []string) string {
	if refs == nil || len(ids) == 0 {
		return "No entities in range.\n"
	}
	keep := make(map[string]bool, len(ids))

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("graph TD\n")
	for _, id := range ids {
		n, ok := refs.Node(id)
		if !ok {
			continue
		}
		keep[id] = true
		fmt.Fprintf(&sb, "    %s[%q]\n", mermaidNodeID(n), n.Name)
	}
	for _, e := range refs.Edges {
		if !keep[e.From] || !keep[e.To] {
			continue
		}
		from, _ := refs.Node(e.From)
		to, _ := refs.Node(e.To)
		fmt.Fprintf(&sb, "    %s --> %s\n", mermaidNodeID(from), mermaidNodeID(to))
	}
	sb.WriteString("```\n")
	return sb.String()
}

// mermaidNodeID prefixes the entity kind so hex IDs never start a Mermaid
// identifier with a digit.
func mermaidNodeID(n graph.Node) string {
	return n.Kind + "_" + n.ID
}
