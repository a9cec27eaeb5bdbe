package ast

import "fmt"

// Index is a read-only lookup view over one tree. Duplicate node IDs are
// rejected at construction; downstream resolution assumes global uniqueness
// within a tree, so this check is the strongest integrity guarantee we have.
type Index struct {
	tree   *Tree
	byID   map[string]*Node
	byType map[NodeType][]*Node
}

// NewIndex builds the id and type maps in a single walk.
func NewIndex(tree *Tree) (*Index, error) {
	if tree == nil {
		return nil, fmt.Errorf("cannot index a nil tree")
	}

	ix := &Index{
		tree:   tree,
		byID:   make(map[string]*Node),
		byType: make(map[NodeType][]*Node),
	}

	var dup error
	tree.Walk(func(n *Node) {
		if dup != nil {
			return
		}
		if _, exists := ix.byID[n.ID]; exists {
			dup = fmt.Errorf("duplicate AST node id detected: %s (file %s)", n.ID, tree.FilePath)
			return
		}
		ix.byID[n.ID] = n
		ix.byType[n.Type] = append(ix.byType[n.Type], n)
	})
	if dup != nil {
		return nil, dup
	}
	return ix, nil
}

// Get returns the node with the given id.
func (ix *Index) Get(id string) (*Node, bool) {
	n, ok := ix.byID[id]
	return n, ok
}

// Require returns the node with the given id or an error when absent.
func (ix *Index) Require(id string) (*Node, error) {
	n, ok := ix.byID[id]
	if !ok {
		return nil, fmt.Errorf("AST node not found: %s", id)
	}
	return n, nil
}

// ParentOf resolves a node's parent through its back-reference.
func (ix *Index) ParentOf(n *Node) *Node {
	if n == nil || n.ParentID == "" {
		return nil
	}
	return ix.byID[n.ParentID]
}

// ByType returns all nodes of the given canonical type in document order.
func (ix *Index) ByType(t NodeType) []*Node {
	nodes := ix.byType[t]
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	return out
}

// Size returns the number of indexed nodes.
func (ix *Index) Size() int {
	return len(ix.byID)
}
