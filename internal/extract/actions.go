package extract

import (
	"testmig/internal/ast"
	"testmig/internal/symbols"
)

// utilityMembers are call members that never form steps on their own:
// element lookup, explicit waits, and timeout configuration plumbing.
var utilityMembers = []string{
	"findElement",
	"until",
	"manage",
	"timeouts",
	"implicitlyWait",
	"presenceOfElementLocated",
	"visibilityOfElementLocated",
	"elementToBeClickable",
	"ofSeconds",
}

// interactionMembers map to action steps regardless of their qualifier.
var interactionMembers = []string{
	"click",
	"sendKeys",
	"submit",
	"clear",
	"doubleClick",
	"contextClick",
	"getText",
	"waitForVisible",
	"navigate",
}

// infrastructureQualifiers name framework plumbing objects. A qualified call
// on anything else is treated as a page-object method call, which is how
// steps with arbitrary member names (loginPage.enterEmail) are recognized.
var infrastructureQualifiers = []string{
	"Duration",
	"ExpectedConditions",
	"By",
	"driver",
	"wait",
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// MapActions returns the action steps one statement yields, in document
// order. A chained call site may yield several; utility calls yield none.
// Each accepted call resolves its target against the statement subtree and
// captures the first literal argument as the step parameter.
func MapActions(stmt *ast.Node, table *symbols.Table) []StepRecord {
	if stmt == nil {
		return nil
	}

	var steps []StepRecord
	stmt.Walk(func(n *ast.Node) {
		member := n.PropertyString("member")
		if member == "" || contains(utilityMembers, member) {
			return
		}

		qualifier := n.PropertyString("qualifier")
		pageObjectCall := qualifier != "" && !contains(infrastructureQualifiers, qualifier)
		if !contains(interactionMembers, member) && !pageObjectCall {
			return
		}

		step := StepRecord{
			Type:       StepAction,
			Name:       member,
			Parameters: map[string]interface{}{},
		}
		if res, ok := table.ResolveStepTarget(stmt); ok {
			step.TargetNameID = res.TargetName
			step.TargetNodeID = res.NodeID
		}
		if value, ok := argumentLiteral(n); ok {
			step.Parameters["value"] = value
		}
		if n.Location != nil {
			step.Line = n.Location.StartLine
		}
		steps = append(steps, step)
	})
	return steps
}

// argumentLiteral returns the first literal value among a call's immediate
// argument nodes.
func argumentLiteral(call *ast.Node) (interface{}, bool) {
	for _, arg := range call.Children {
		if v, ok := arg.Property("value"); ok {
			return v.Scalar(), true
		}
	}
	return nil, false
}
