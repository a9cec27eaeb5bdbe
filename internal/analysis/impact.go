package analysis

import (
	"path/filepath"
	"strings"

	"testmig/internal/graph"
	"testmig/internal/ir"
)

// ImpactReport lists the entities touched by a set of changed source files:
// targets declared in those files, the tests whose steps use them, and the
// suites containing those tests. Entities keep document order.
type ImpactReport struct {
	ChangedFiles   []string
	DirectTargets  []graph.Node
	AffectedTests  []graph.Node
	AffectedSuites []graph.Node
}

// Analyzer walks the reference graph backwards from changed files.
type Analyzer struct {
	doc *ir.Document
	g   *graph.Graph
}

func NewAnalyzer(doc *ir.Document, g *graph.Graph) *Analyzer {
	return &Analyzer{doc: doc, g: g}
}

// AnalyzeImpact marks targets whose source file changed and follows reverse
// edges to the tests and suites that reach them.
func (a *Analyzer) AnalyzeImpact(changedFiles []string) *ImpactReport {
	report := &ImpactReport{
		ChangedFiles:   normalizePaths(changedFiles),
		DirectTargets:  []graph.Node{},
		AffectedTests:  []graph.Node{},
		AffectedSuites: []graph.Node{},
	}
	if a.doc == nil || a.g == nil {
		return report
	}

	seenTargets := make(map[string]bool)
	for _, target := range a.doc.Targets {
		file := target.Metadata["file_path"]
		if file == "" || seenTargets[target.ID] {
			continue
		}
		for _, changed := range report.ChangedFiles {
			if !pathsMatch(file, changed) {
				continue
			}
			if node, ok := a.g.Node(target.ID); ok {
				seenTargets[target.ID] = true
				report.DirectTargets = append(report.DirectTargets, node)
			}
			break
		}
	}

	seenTests := make(map[string]bool)
	for _, target := range report.DirectTargets {
		for _, depID := range a.g.Dependents(target.ID) {
			node, ok := a.g.Node(depID)
			if !ok || node.Kind != graph.KindTest || seenTests[node.ID] {
				continue
			}
			seenTests[node.ID] = true
			report.AffectedTests = append(report.AffectedTests, node)
		}
	}

	seenSuites := make(map[string]bool)
	for _, test := range report.AffectedTests {
		for _, depID := range a.g.Dependents(test.ID) {
			node, ok := a.g.Node(depID)
			if !ok || node.Kind != graph.KindSuite || seenSuites[node.ID] {
				continue
			}
			seenSuites[node.ID] = true
			report.AffectedSuites = append(report.AffectedSuites, node)
		}
	}

	return report
}

func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, filepath.ToSlash(p))
	}
	return out
}

// pathsMatch compares slash-normalized paths, accepting a repo-relative
// path against a root-prefixed one: git reports `src/pages/LoginPage.java`
// while the compiler may have walked `java-src/src/pages/LoginPage.java`.
func pathsMatch(a, b string) bool {
	a = filepath.ToSlash(a)
	b = filepath.ToSlash(b)
	if a == b {
		return true
	}
	return strings.HasSuffix(a, "/"+b) || strings.HasSuffix(b, "/"+a)
}
