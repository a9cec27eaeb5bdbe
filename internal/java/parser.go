package java

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"testmig/internal/ast"
)

// Language is the canonical language tag stamped on adapted trees.
const Language = "java"

// Parser turns one Java source file into the canonical AST. Each parse uses
// a fresh adapter so node IDs restart at 1 for every file.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses path. Read, parse, and adaptation errors all
// carry the file path and propagate unmodified.
func (p *Parser) ParseFile(path string) (*ast.Tree, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(path, source)
}

// Parse parses source as Java and adapts the syntax tree.
func (p *Parser) Parse(path string, source []byte) (*ast.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("failed to parse file %s: source contains syntax errors", path)
	}

	return NewAdapter().Adapt(root, source, path)
}
