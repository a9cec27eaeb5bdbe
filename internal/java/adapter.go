package java

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"testmig/internal/ast"
)

// Adapter converts a parsed Java syntax tree into the canonical form. It
// carries no semantic logic: classes become suites, @Test methods become
// tests, declarations keep their names, invocations keep qualifier/member,
// literals keep their values. Everything else degrades to generic nodes so
// downstream passes see a complete, order-stable tree.
type Adapter struct {
	builder *ast.Builder
	source  []byte
	path    string
}

// NewAdapter returns an adapter scoped to one file adaptation.
func NewAdapter() *Adapter {
	return &Adapter{builder: ast.NewBuilder()}
}

// Adapt converts the syntax tree rooted at root into a canonical tree.
func (a *Adapter) Adapt(root *sitter.Node, source []byte, path string) (*ast.Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("syntax tree root cannot be nil")
	}
	a.source = source
	a.path = path

	rootNode, err := a.builder.CreateNode(ast.TypeGeneric, nil, nil)
	if err != nil {
		return nil, err
	}
	rootNode.Location = a.location(root)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		if err := a.convert(root.NamedChild(i), rootNode); err != nil {
			return nil, err
		}
	}
	return a.builder.BuildTree(rootNode, Language, path)
}

func (a *Adapter) convert(n *sitter.Node, parent *ast.Node) error {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "class_declaration", "interface_declaration":
		return a.convertClass(n, parent)
	case "method_declaration", "constructor_declaration":
		return a.convertMethod(n, parent)
	case "field_declaration":
		return a.convertDeclarators(n, ast.TypeField, parent)
	case "local_variable_declaration":
		return a.convertDeclarators(n, ast.TypeVariable, parent)
	case "formal_parameter":
		return a.convertParameter(n, parent)
	case "method_invocation":
		return a.convertInvocation(n, parent)
	case "field_access":
		return a.convertFieldAccess(n, parent)
	case "identifier":
		return a.convertIdentifier(n, parent)
	case "object_creation_expression":
		return a.convertObjectCreation(n, parent)
	case "string_literal", "character_literal":
		return a.convertStringLiteral(n, parent)
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		return a.convertIntegerLiteral(n, parent)
	case "decimal_floating_point_literal":
		return a.convertFloatLiteral(n, parent)
	case "true", "false":
		return a.convertBoolLiteral(n, parent)
	case "expression_statement":
		// Statements unwrap to their expression so a test's children are
		// the calls themselves.
		return a.convertChildren(n, parent)
	case "package_declaration", "import_declaration", "line_comment", "block_comment", "modifiers":
		return nil
	default:
		return a.convertGeneric(n, parent)
	}
}

func (a *Adapter) convertClass(n *sitter.Node, parent *ast.Node) error {
	name := a.text(n.ChildByFieldName("name"))

	node, err := a.builder.CreateNode(ast.TypeSuite, ast.Properties{"name": ast.StringValue(name)}, parent)
	if err != nil {
		return err
	}
	node.Name = name
	node.Location = a.location(n)

	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if err := a.convert(body.NamedChild(i), node); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) convertMethod(n *sitter.Node, parent *ast.Node) error {
	name := a.text(n.ChildByFieldName("name"))

	nodeType := ast.TypeGeneric
	if a.hasAnnotation(n, "Test") {
		nodeType = ast.TypeTest
	}

	node, err := a.builder.CreateNode(nodeType, ast.Properties{"name": ast.StringValue(name)}, parent)
	if err != nil {
		return err
	}
	node.Name = name
	node.Location = a.location(n)
	if nodeType == ast.TypeGeneric {
		node.Metadata = map[string]string{"kind": "method"}
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			child := params.NamedChild(i)
			if child.Type() == "formal_parameter" {
				if err := a.convertParameter(child, node); err != nil {
					return err
				}
			}
		}
	}

	// Method bodies unwrap: statements attach directly to the method node.
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			if err := a.convert(body.NamedChild(i), node); err != nil {
				return err
			}
		}
	}
	return nil
}

// hasAnnotation reports whether the declaration's modifiers carry the named
// annotation, matching both plain and package-qualified forms.
func (a *Adapter) hasAnnotation(n *sitter.Node, name string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			mod := child.Child(j)
			if mod.Type() != "marker_annotation" && mod.Type() != "annotation" {
				continue
			}
			annotation := a.text(mod.ChildByFieldName("name"))
			if annotation == name || strings.HasSuffix(annotation, "."+name) {
				return true
			}
		}
	}
	return false
}

// convertDeclarators emits one canonical node per variable_declarator, so a
// multi-declarator statement yields one field/variable each.
func (a *Adapter) convertDeclarators(n *sitter.Node, nodeType ast.NodeType, parent *ast.Node) error {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}

		name := a.text(child.ChildByFieldName("name"))
		node, err := a.builder.CreateNode(nodeType, ast.Properties{"name": ast.StringValue(name)}, parent)
		if err != nil {
			return err
		}
		node.Name = name
		node.Location = a.location(child)

		if value := child.ChildByFieldName("value"); value != nil {
			if err := a.convert(value, node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Adapter) convertParameter(n *sitter.Node, parent *ast.Node) error {
	name := a.text(n.ChildByFieldName("name"))

	node, err := a.builder.CreateNode(ast.TypeParameter, ast.Properties{"name": ast.StringValue(name)}, parent)
	if err != nil {
		return err
	}
	node.Name = name
	node.Location = a.location(n)
	return nil
}

// convertInvocation keeps the qualifier only when the receiver is a simple
// expression. A chained receiver call becomes a child node instead, so
// driver.findElement(by).sendKeys(x) yields an unqualified sendKeys node
// with a qualified findElement child.
func (a *Adapter) convertInvocation(n *sitter.Node, parent *ast.Node) error {
	member := a.text(n.ChildByFieldName("name"))
	props := ast.Properties{"member": ast.StringValue(member)}

	object := n.ChildByFieldName("object")
	qualifier := ""
	if object != nil {
		switch object.Type() {
		case "identifier", "field_access", "this":
			qualifier = a.text(object)
		}
	}
	if qualifier != "" {
		props["qualifier"] = ast.StringValue(qualifier)
	}

	node, err := a.builder.CreateNode(ast.TypeGeneric, props, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)

	if object != nil && qualifier == "" {
		if err := a.convert(object, node); err != nil {
			return err
		}
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			if err := a.convert(args.NamedChild(i), node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Adapter) convertFieldAccess(n *sitter.Node, parent *ast.Node) error {
	props := ast.Properties{"member": ast.StringValue(a.text(n.ChildByFieldName("field")))}

	if object := n.ChildByFieldName("object"); object != nil {
		switch object.Type() {
		case "identifier", "this":
			props["qualifier"] = ast.StringValue(a.text(object))
		}
	}

	node, err := a.builder.CreateNode(ast.TypeGeneric, props, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return nil
}

func (a *Adapter) convertIdentifier(n *sitter.Node, parent *ast.Node) error {
	node, err := a.builder.CreateNode(ast.TypeGeneric, ast.Properties{"name": ast.StringValue(a.text(n))}, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return nil
}

func (a *Adapter) convertObjectCreation(n *sitter.Node, parent *ast.Node) error {
	typeName := a.text(n.ChildByFieldName("type"))

	node, err := a.builder.CreateNode(ast.TypeGeneric, ast.Properties{"name": ast.StringValue(typeName)}, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)

	if args := n.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			if err := a.convert(args.NamedChild(i), node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Adapter) convertStringLiteral(n *sitter.Node, parent *ast.Node) error {
	value := a.text(n)
	if len(value) >= 2 {
		value = value[1 : len(value)-1]
	}

	node, err := a.builder.CreateNode(ast.TypeGeneric, ast.Properties{"value": ast.StringValue(value)}, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return nil
}

func (a *Adapter) convertIntegerLiteral(n *sitter.Node, parent *ast.Node) error {
	raw := strings.ReplaceAll(a.text(n), "_", "")
	raw = strings.TrimRight(raw, "lL")

	var value ast.PropValue
	if parsed, err := strconv.ParseInt(raw, 0, 64); err == nil {
		value = ast.IntValue(parsed)
	} else {
		value = ast.StringValue(raw)
	}

	node, err := a.builder.CreateNode(ast.TypeGeneric, ast.Properties{"value": value}, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return nil
}

func (a *Adapter) convertFloatLiteral(n *sitter.Node, parent *ast.Node) error {
	raw := strings.TrimRight(strings.ReplaceAll(a.text(n), "_", ""), "fFdD")

	var value ast.PropValue
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
		value = ast.FloatValue(parsed)
	} else {
		value = ast.StringValue(raw)
	}

	node, err := a.builder.CreateNode(ast.TypeGeneric, ast.Properties{"value": value}, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return nil
}

func (a *Adapter) convertBoolLiteral(n *sitter.Node, parent *ast.Node) error {
	node, err := a.builder.CreateNode(ast.TypeGeneric, ast.Properties{"value": ast.BoolValue(n.Type() == "true")}, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return nil
}

func (a *Adapter) convertGeneric(n *sitter.Node, parent *ast.Node) error {
	node, err := a.builder.CreateNode(ast.TypeGeneric, nil, parent)
	if err != nil {
		return err
	}
	node.Location = a.location(n)
	return a.convertNamedChildren(n, node)
}

func (a *Adapter) convertChildren(n *sitter.Node, parent *ast.Node) error {
	return a.convertNamedChildren(n, parent)
}

func (a *Adapter) convertNamedChildren(n *sitter.Node, parent *ast.Node) error {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if err := a.convert(n.NamedChild(i), parent); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(a.source)
}

func (a *Adapter) location(n *sitter.Node) *ast.Location {
	return &ast.Location{
		FilePath:    a.path,
		StartLine:   int(n.StartPoint().Row) + 1,
		StartColumn: int(n.StartPoint().Column) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		EndColumn:   int(n.EndPoint().Column) + 1,
	}
}
