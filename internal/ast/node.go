package ast

import (
	"encoding/json"
	"fmt"
)

// NodeType is the canonical category tag assigned by front-end adapters.
// The vocabulary is fixed; adapters map language-specific constructs onto it.
type NodeType string

const (
	TypeSuite     NodeType = "suite"     // class-like declaration (page object, test class)
	TypeTest      NodeType = "test"      // test-case method
	TypeField     NodeType = "field"     // class field declaration
	TypeVariable  NodeType = "variable"  // local variable declaration
	TypeParameter NodeType = "parameter" // method parameter
	TypeGeneric   NodeType = "node"      // everything else (statements, calls, literals)
)

// PropKind discriminates the scalar kinds a property value can hold.
type PropKind int

const (
	KindString PropKind = iota
	KindInt
	KindFloat
	KindBool
)

// PropValue is one scalar property value. Only a closed set of scalar kinds
// is representable; this keeps every node JSON-serializable and hashable.
type PropValue struct {
	kind PropKind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) PropValue { return PropValue{kind: KindString, str: s} }
func IntValue(i int64) PropValue     { return PropValue{kind: KindInt, num: float64(i)} }
func FloatValue(f float64) PropValue { return PropValue{kind: KindFloat, num: f} }
func BoolValue(b bool) PropValue     { return PropValue{kind: KindBool, b: b} }

func (v PropValue) Kind() PropKind { return v.kind }

// AsString returns the string content, or "" when the value is not a string.
func (v PropValue) AsString() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

func (v PropValue) AsInt() int64     { return int64(v.num) }
func (v PropValue) AsFloat() float64 { return v.num }
func (v PropValue) AsBool() bool     { return v.b }

// Scalar returns the underlying value as a plain JSON-serializable scalar.
func (v PropValue) Scalar() interface{} {
	return v.jsonValue()
}

// jsonValue returns the native value used for serialization and hashing.
func (v PropValue) jsonValue() interface{} {
	switch v.kind {
	case KindInt:
		return int64(v.num)
	case KindFloat:
		return v.num
	case KindBool:
		return v.b
	default:
		return v.str
	}
}

func (v PropValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.jsonValue())
}

// Properties is the flat scalar attribute bag carried by a node. Extractors
// key on a handful of entries: "qualifier", "member", "value", "name".
type Properties map[string]PropValue

// Location is an optional source position attached to a node.
type Location struct {
	FilePath    string `json:"file_path,omitempty"`
	StartLine   int    `json:"start_line,omitempty"`
	StartColumn int    `json:"start_column,omitempty"`
	EndLine     int    `json:"end_line,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
}

// Node is the canonical AST unit all front-end adapters must produce.
// Children are owned by the node; ParentID is a non-owning back-reference
// resolved through an Index, never a pointer (no cycles).
type Node struct {
	ID         string            `json:"id"`
	Type       NodeType          `json:"type"`
	Name       string            `json:"name,omitempty"`
	Properties Properties        `json:"properties,omitempty"`
	ParentID   string            `json:"parent_id,omitempty"`
	Children   []*Node           `json:"children,omitempty"`
	Location   *Location         `json:"location,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Property returns the raw property value for key.
func (n *Node) Property(key string) (PropValue, bool) {
	v, ok := n.Properties[key]
	return v, ok
}

// PropertyString returns the string property for key, or "" when the key is
// absent or holds a non-string value.
func (n *Node) PropertyString(key string) string {
	if v, ok := n.Properties[key]; ok {
		return v.AsString()
	}
	return ""
}

// HasProperty reports whether key is present in the property bag.
func (n *Node) HasProperty(key string) bool {
	_, ok := n.Properties[key]
	return ok
}

// AddChild attaches child to n, wiring the parent back-reference.
// Structural violations are reported immediately, never deferred.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("cannot attach nil child to node %s", n.ID)
	}
	if child.ID == n.ID {
		return fmt.Errorf("node %s cannot be its own child", n.ID)
	}
	if child.ParentID != "" && child.ParentID != n.ID {
		return fmt.Errorf("node %s is already attached to %s", child.ID, child.ParentID)
	}
	child.ParentID = n.ID
	n.Children = append(n.Children, child)
	return nil
}

// Walk visits n and all descendants depth-first in document order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Find returns the first node in depth-first order matching the predicate,
// or nil when nothing matches.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// Validate checks the node's local structural invariants and those of its
// subtree. A violation indicates a broken adapter, not a recoverable state.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node id cannot be empty")
	}
	if n.Type == "" {
		return fmt.Errorf("node %s: type cannot be empty", n.ID)
	}
	for _, child := range n.Children {
		if child.ID == n.ID {
			return fmt.Errorf("node %s cannot be its own child", n.ID)
		}
		if child.ParentID != n.ID {
			return fmt.Errorf("child %s parent_id mismatch (expected %s, got %s)", child.ID, n.ID, child.ParentID)
		}
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tree is the canonical AST for one source file.
type Tree struct {
	Root     *Node  `json:"root"`
	Language string `json:"language"`
	FilePath string `json:"file_path"`
}

// NewTree wraps a root node, validating the tree-level invariants.
func NewTree(root *Node, language, filePath string) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("tree must have a root node")
	}
	if filePath == "" {
		return nil, fmt.Errorf("tree file_path cannot be empty")
	}
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tree for %s: %w", filePath, err)
	}
	return &Tree{Root: root, Language: language, FilePath: filePath}, nil
}

// Walk visits every node in the tree depth-first in document order.
func (t *Tree) Walk(visit func(*Node)) {
	t.Root.Walk(visit)
}

// NodeCount returns the total number of nodes in the tree.
func (t *Tree) NodeCount() int {
	count := 0
	t.Root.Walk(func(*Node) { count++ })
	return count
}
