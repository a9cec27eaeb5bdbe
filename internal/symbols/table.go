package symbols

import (
	"strings"
	"unicode"

	"testmig/internal/ast"
)

// locatorQualifier marks the call shape `By.<strategy>(...)` that front-end
// adapters surface as properties {qualifier: "By", member: "<strategy>"}.
const locatorQualifier = "By"

// IsLocatorConstructor reports whether a node is a locator-constructor call.
func IsLocatorConstructor(n *ast.Node) bool {
	if n == nil {
		return false
	}
	return n.PropertyString("qualifier") == locatorQualifier && n.PropertyString("member") != ""
}

// inferenceRule maps a page-object method-name prefix to the suffix of the
// target it conventionally operates on. Rules are applied in order; the
// first matching prefix wins.
type inferenceRule struct {
	prefix string
	suffix string
}

var methodTargetRules = []inferenceRule{
	{prefix: "enter", suffix: "Input"},
	{prefix: "click", suffix: "Button"},
	{prefix: "select", suffix: "Select"},
	{prefix: "check", suffix: "Checkbox"},
	{prefix: "fill", suffix: "Input"},
}

// InferTargetName derives a target name from a method name by naming
// convention alone: strip the matched prefix, lowercase the first letter of
// the remainder, append the rule's suffix. Methods matching no rule yield
// no inference; that is absence, not an error.
func InferTargetName(method string) (string, bool) {
	for _, rule := range methodTargetRules {
		if len(method) > len(rule.prefix) && strings.HasPrefix(method, rule.prefix) {
			stem := method[len(rule.prefix):]
			return lowerFirst(stem) + rule.suffix, true
		}
	}
	return "", false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Resolution is the outcome of resolving a step's target: a symbolic name
// usable for cross-file target linking, plus the AST node that anchors it
// (the locator initializer or the resolving call site).
type Resolution struct {
	TargetName string
	NodeID     string
}

// Table resolves indirect references to locator-defining nodes so extractors
// never re-walk arbitrary expression chains. It is built once per tree and
// discarded with it; nothing leaks across files.
type Table struct {
	symbols       map[string]*ast.Node
	methodTargets map[string]string
	classFields   map[string]map[string]*ast.Node
}

// NewTable builds the symbol table for one canonical tree in two passes:
// declaration initializers first, then method-name target inference.
func NewTable(tree *ast.Tree) *Table {
	t := &Table{
		symbols:       make(map[string]*ast.Node),
		methodTargets: make(map[string]string),
		classFields:   make(map[string]map[string]*ast.Node),
	}
	if tree == nil {
		return t
	}

	// Pass 1: record the first locator-constructor under every named
	// field/variable/parameter declaration. Direct children are scanned
	// before the full subtree so a top-level initializer always beats a
	// nested occurrence.
	tree.Walk(func(n *ast.Node) {
		switch n.Type {
		case ast.TypeField, ast.TypeVariable, ast.TypeParameter:
			if n.Name == "" {
				return
			}
			if locator := findInitializerLocator(n); locator != nil {
				t.symbols[n.Name] = locator
			}
		case ast.TypeSuite:
			t.recordClassFields(n)
		}
	})

	// Pass 2: naming-convention inference for every named method-like node.
	// Each method is evaluated independently; no match means no entry.
	tree.Walk(func(n *ast.Node) {
		if n.Name == "" {
			return
		}
		if n.Type != ast.TypeTest && n.Metadata["kind"] != "method" {
			return
		}
		if target, ok := InferTargetName(n.Name); ok {
			t.methodTargets[n.Name] = target
		}
	})

	return t
}

// findInitializerLocator returns the first locator-constructor beneath a
// declaration: direct children first, then each child's subtree in order.
func findInitializerLocator(decl *ast.Node) *ast.Node {
	for _, child := range decl.Children {
		if IsLocatorConstructor(child) {
			return child
		}
	}
	for _, child := range decl.Children {
		if found := child.Find(IsLocatorConstructor); found != nil {
			return found
		}
	}
	return nil
}

// recordClassFields captures, per class, the declared fields whose
// initializers resolve to locators. Descriptive metadata only; cross-class
// resolution is out of scope.
func (t *Table) recordClassFields(class *ast.Node) {
	if class.Name == "" {
		return
	}
	var fields map[string]*ast.Node
	class.Walk(func(n *ast.Node) {
		if n.Type != ast.TypeField || n.Name == "" {
			return
		}
		locator := findInitializerLocator(n)
		if locator == nil {
			return
		}
		if fields == nil {
			fields = make(map[string]*ast.Node)
		}
		fields[n.Name] = locator
	})
	if fields != nil {
		t.classFields[class.Name] = fields
	}
}

// Symbol returns the locator initializer recorded for a declaration name.
func (t *Table) Symbol(name string) (*ast.Node, bool) {
	n, ok := t.symbols[name]
	return n, ok
}

// MethodTarget returns the inferred target name for a declared method.
func (t *Table) MethodTarget(method string) (string, bool) {
	target, ok := t.methodTargets[method]
	return target, ok
}

// Symbols returns a copy of the name → initializer map.
func (t *Table) Symbols() map[string]*ast.Node {
	out := make(map[string]*ast.Node, len(t.symbols))
	for k, v := range t.symbols {
		out[k] = v
	}
	return out
}

// MethodTargets returns a copy of the method → inferred target map.
func (t *Table) MethodTargets() map[string]string {
	out := make(map[string]string, len(t.methodTargets))
	for k, v := range t.methodTargets {
		out[k] = v
	}
	return out
}

// ClassFields returns the locator fields recorded for a class, or nil.
func (t *Table) ClassFields(class string) map[string]*ast.Node {
	fields, ok := t.classFields[class]
	if !ok {
		return nil
	}
	out := make(map[string]*ast.Node, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// ResolveReference resolves a single node against the recorded symbols,
// trying its "name" property first, then its "member" property.
func (t *Table) ResolveReference(n *ast.Node) (string, *ast.Node, bool) {
	if name := n.PropertyString("name"); name != "" {
		if init, ok := t.symbols[name]; ok {
			return name, init, true
		}
	}
	if member := n.PropertyString("member"); member != "" {
		if init, ok := t.symbols[member]; ok {
			return member, init, true
		}
	}
	return "", nil, false
}

// ResolveStepTarget walks a statement subtree depth-first and returns the
// first match in fixed priority order: a page-object method call with an
// inferable target, then a reference to a recorded symbol, then a raw
// locator-constructor. No match is reported as ok=false, never an error;
// callers propagate the absence into the IR.
func (t *Table) ResolveStepTarget(stmt *ast.Node) (Resolution, bool) {
	if stmt == nil {
		return Resolution{}, false
	}

	var res Resolution
	found := stmt.Find(func(n *ast.Node) bool {
		if member := n.PropertyString("member"); member != "" {
			if target, ok := t.methodTargets[member]; ok {
				res = Resolution{TargetName: target, NodeID: n.ID}
				return true
			}
			if target, ok := InferTargetName(member); ok && !IsLocatorConstructor(n) {
				res = Resolution{TargetName: target, NodeID: n.ID}
				return true
			}
		}

		if name, init, ok := t.ResolveReference(n); ok {
			res = Resolution{TargetName: name, NodeID: init.ID}
			return true
		}

		if IsLocatorConstructor(n) {
			strategy := n.PropertyString("member")
			if strategy == "" {
				strategy = "locator"
			}
			res = Resolution{TargetName: strategy, NodeID: n.ID}
			return true
		}
		return false
	})

	return res, found != nil
}
