package ast

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hasher computes deterministic structural hashes over canonical subtrees.
// The hash covers type, sorted properties, and ordered child hashes; it never
// reads parent references, so identical subtrees hash identically regardless
// of where they sit in the tree. Hashing never mutates the AST.
type Hasher struct{}

// NewHasher returns a SHA-256 based structural hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashTree computes the structural hash of an entire tree.
func (h *Hasher) HashTree(tree *Tree) (string, error) {
	if tree == nil || tree.Root == nil {
		return "", fmt.Errorf("cannot hash an empty tree")
	}
	return h.HashNode(tree.Root)
}

// HashNode computes a node's structural hash bottom-up: child hashes first,
// in order, then the node's own type and property bag.
func (h *Hasher) HashNode(node *Node) (string, error) {
	if node == nil {
		return "", fmt.Errorf("cannot hash a nil node")
	}

	childHashes := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		ch, err := h.HashNode(child)
		if err != nil {
			return "", err
		}
		childHashes = append(childHashes, ch)
	}

	serialized, err := canonicalJSON(structuralPayload(node, childHashes))
	if err != nil {
		return "", fmt.Errorf("failed to serialize hash payload for node %s: %w", node.ID, err)
	}

	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:]), nil
}

// structuralPayload builds the JSON-serializable shape that gets hashed.
// Runtime-only fields (id, parent_id, location, metadata) are excluded.
func structuralPayload(node *Node, childHashes []string) map[string]interface{} {
	attributes := make(map[string]interface{}, len(node.Properties))
	for key, value := range node.Properties {
		attributes[key] = value.jsonValue()
	}
	return map[string]interface{}{
		"type":       string(node.Type),
		"attributes": attributes,
		"children":   childHashes,
	}
}

// canonicalJSON serializes with sorted keys, compact separators, and no HTML
// escaping, so the same payload always yields the same bytes.
func canonicalJSON(payload interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
