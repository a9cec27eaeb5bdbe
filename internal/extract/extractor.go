package extract

import (
	"fmt"

	"testmig/internal/ast"
	"testmig/internal/symbols"
)

// Extract runs all extraction passes over one canonical tree and assembles
// the per-file result. A fresh index and symbol table are built for the tree;
// nothing leaks into the next file. Lists stay non-nil so the serialized
// result always carries every key.
func Extract(tree *ast.Tree, projectName, sourceLanguage string) (*Result, error) {
	if tree == nil {
		return nil, fmt.Errorf("cannot extract from a nil tree")
	}

	idx, err := ast.NewIndex(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", tree.FilePath, err)
	}
	table := symbols.NewTable(tree)

	result := &Result{
		ProjectName:    projectName,
		SourceLanguage: sourceLanguage,
		Tests:          []TestRecord{},
		Suites:         []SuiteRecord{},
		Targets:        []TargetRecord{},
		Environments:   []string{},
	}

	result.Targets = append(result.Targets, Pages(tree)...)
	result.Targets = append(result.Targets, Locators(tree, idx)...)

	tree.Walk(func(n *ast.Node) {
		switch n.Type {
		case ast.TypeSuite:
			result.Suites = append(result.Suites, suiteRecord(n, tree.FilePath))
		case ast.TypeTest:
			result.Tests = append(result.Tests, testRecord(n, tree.FilePath, table))
		}
	})

	return result, nil
}

// suiteRecord captures a suite and the names of the tests declared under it.
func suiteRecord(suite *ast.Node, file string) SuiteRecord {
	rec := SuiteRecord{
		Name:   suite.Name,
		NodeID: suite.ID,
		File:   file,
		Tests:  []string{},
	}
	suite.Walk(func(n *ast.Node) {
		if n.Type == ast.TypeTest && n.Name != "" {
			rec.Tests = append(rec.Tests, n.Name)
		}
	})
	return rec
}

// testRecord maps a test node's child statements through the action and
// assertion mappers in document order. A statement may yield any number of
// steps; concatenation follows statement order.
func testRecord(test *ast.Node, file string, table *symbols.Table) TestRecord {
	rec := TestRecord{
		Name:   test.Name,
		NodeID: test.ID,
		File:   file,
		Tags:   []string{},
		Steps:  []StepRecord{},
	}
	for _, stmt := range test.Children {
		rec.Steps = append(rec.Steps, MapActions(stmt, table)...)
		rec.Steps = append(rec.Steps, MapAssertions(stmt)...)
	}
	return rec
}
