package extract

import "testmig/internal/ast"

// Pages collects every suite-typed declaration as a page-object target, one
// record per declared type in document order.
func Pages(tree *ast.Tree) []TargetRecord {
	if tree == nil {
		return nil
	}

	var out []TargetRecord
	tree.Walk(func(n *ast.Node) {
		if n.Type != ast.TypeSuite {
			return
		}
		out = append(out, TargetRecord{
			Kind:   KindPage,
			NodeID: n.ID,
			Name:   n.Name,
			File:   tree.FilePath,
		})
	})
	return out
}
