package extract

import (
	"strings"

	"testmig/internal/ast"
)

// MapAssertions returns the assertion steps one statement yields. Each
// distinct assert* member is counted once per statement subtree, first
// occurrence kept. Assertions carry no target resolution.
func MapAssertions(stmt *ast.Node) []StepRecord {
	if stmt == nil {
		return nil
	}

	var steps []StepRecord
	seen := make(map[string]bool)
	stmt.Walk(func(n *ast.Node) {
		member := n.PropertyString("member")
		if member == "" || !strings.HasPrefix(member, "assert") || seen[member] {
			return
		}
		seen[member] = true

		step := StepRecord{
			Type:       StepAssertion,
			Name:       member,
			Parameters: map[string]interface{}{},
		}
		if n.Location != nil {
			step.Line = n.Location.StartLine
		}
		steps = append(steps, step)
	})
	return steps
}
