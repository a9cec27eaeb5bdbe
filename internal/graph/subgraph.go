package graph

import "sort"

// Subgraph returns the IDs reachable from the roots within maxHops edges,
// treating edges as undirected so a changed target pulls in the tests using
// it and the suites containing those tests. Roots missing from the graph are
// ignored. The result is sorted for stable output.
func (g *Graph) Subgraph(rootIDs []string, maxHops int) []string {
	if g == nil || maxHops < 0 {
		return []string{}
	}

	type queueItem struct {
		id    string
		depth int
	}

	visited := make(map[string]bool)
	queue := make([]queueItem, 0, len(rootIDs))
	for _, id := range rootIDs {
		if _, ok := g.Nodes[id]; !ok {
			continue
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		queue = append(queue, queueItem{id: id})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxHops {
			continue
		}

		neighbors := append([]string{}, g.adjacency[cur.id]...)
		neighbors = append(neighbors, g.reverse[cur.id]...)
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, queueItem{id: next, depth: cur.depth + 1})
		}
	}

	out := make([]string, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
