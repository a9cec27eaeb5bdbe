package extract

import (
	"fmt"

	"testmig/internal/ast"
	"testmig/internal/symbols"
)

// Locators collects every locator-constructor in the tree, deduplicated by
// (strategy, literal value) with the first occurrence kept. The name comes
// from the nearest named ancestor (the owning field or variable); the nearest
// enclosing suite becomes the owning page.
func Locators(tree *ast.Tree, idx *ast.Index) []TargetRecord {
	if tree == nil {
		return nil
	}

	type locatorKey struct {
		strategy string
		value    string
	}
	seen := make(map[locatorKey]bool)

	var out []TargetRecord
	tree.Walk(func(n *ast.Node) {
		if !symbols.IsLocatorConstructor(n) {
			return
		}

		strategy := n.PropertyString("member")
		value := literalValue(n)
		key := locatorKey{strategy: strategy, value: value}
		if seen[key] {
			return
		}
		seen[key] = true

		out = append(out, TargetRecord{
			Kind:     KindLocator,
			NodeID:   n.ID,
			Name:     nearestName(n, idx),
			Strategy: strategy,
			Value:    value,
			Page:     enclosingSuite(n, idx),
			File:     tree.FilePath,
		})
	})
	return out
}

// literalValue returns the first literal argument of a call as text.
func literalValue(call *ast.Node) string {
	for _, arg := range call.Children {
		if v, ok := arg.Property("value"); ok {
			if v.Kind() == ast.KindString {
				return v.AsString()
			}
			return fmt.Sprint(v.Scalar())
		}
	}
	return ""
}

// nearestName walks up the parent chain to the closest ancestor carrying a
// declaration name.
func nearestName(n *ast.Node, idx *ast.Index) string {
	for cur := idx.ParentOf(n); cur != nil; cur = idx.ParentOf(cur) {
		if cur.Name != "" {
			return cur.Name
		}
	}
	return ""
}

// enclosingSuite walks up the parent chain to the closest suite ancestor.
func enclosingSuite(n *ast.Node, idx *ast.Index) string {
	for cur := idx.ParentOf(n); cur != nil; cur = idx.ParentOf(cur) {
		if cur.Type == ast.TypeSuite {
			return cur.Name
		}
	}
	return ""
}
