package ast

import (
	"fmt"
	"strings"
)

// Builder constructs canonical nodes with deterministic IDs. One builder is
// scoped to one file adaptation: the sequence counter resets with each new
// instance, so identical traversal order yields identical IDs across runs.
type Builder struct {
	counter int
	nodes   map[string]*Node
}

// NewBuilder returns a builder with a fresh ID sequence.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]*Node)}
}

// CreateNode allocates a node with an ID of the form <lowercased-type>_<seq>,
// attaches it to parent when given, and registers it in the builder's index.
func (b *Builder) CreateNode(nodeType NodeType, props Properties, parent *Node) (*Node, error) {
	if nodeType == "" {
		return nil, fmt.Errorf("node type cannot be empty")
	}
	if props == nil {
		props = Properties{}
	}

	node := &Node{
		ID:         b.nextID(nodeType),
		Type:       nodeType,
		Properties: props,
	}
	b.nodes[node.ID] = node

	if parent != nil {
		if err := parent.AddChild(node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// BuildTree finalizes a tree around root. It performs no mutation beyond
// the tree-level validation in NewTree.
func (b *Builder) BuildTree(root *Node, language, filePath string) (*Tree, error) {
	tree, err := NewTree(root, language, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return tree, nil
}

// Node returns a node previously created by this builder.
func (b *Builder) Node(id string) (*Node, bool) {
	node, ok := b.nodes[id]
	return node, ok
}

// Created returns how many nodes this builder has allocated.
func (b *Builder) Created() int {
	return len(b.nodes)
}

func (b *Builder) nextID(nodeType NodeType) string {
	b.counter++
	return fmt.Sprintf("%s_%d", strings.ToLower(string(nodeType)), b.counter)
}
