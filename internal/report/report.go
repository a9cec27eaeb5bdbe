package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"testmig/internal/analysis"
	"testmig/internal/extract"
	"testmig/internal/graph"
	"testmig/internal/ir"
)

// Generator renders the migration readiness report. Everything it prints
// comes from the IR document and its reference graph, so regenerating from
// the same snapshot yields byte-identical Markdown. The only timestamp in
// the output is the document's own generated_at.
type Generator struct {
	mermaid *mermaidRenderer
}

func NewGenerator() *Generator {
	return &Generator{mermaid: &mermaidRenderer{}}
}

// Render produces the full report body.
func (g *Generator) Render(doc *ir.Document, refs *graph.Graph) string {
	if doc == nil {
		return ""
	}
	if refs == nil {
		refs = graph.FromDocument(doc)
	}

	var sb strings.Builder
	g.writeHeader(&sb, doc)
	g.writeSummary(&sb, doc, refs)
	g.writeSuites(&sb, doc)
	g.writeTargets(&sb, doc)
	g.writeUnresolved(&sb, doc)
	g.writeGraph(&sb, refs)
	return sb.String()
}

// RenderWithImpact appends a change-impact section for runs that analyzed a
// git range alongside the snapshot.
func (g *Generator) RenderWithImpact(doc *ir.Document, refs *graph.Graph, since string, rep *analysis.ImpactReport) string {
	if refs == nil && doc != nil {
		refs = graph.FromDocument(doc)
	}
	return g.Render(doc, refs) + "\n" + g.impactSection(refs, since, rep)
}

// WriteFile writes rendered Markdown under path, creating parent directories
// as needed.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func (g *Generator) writeHeader(sb *strings.Builder, doc *ir.Document) {
	meta := doc.Project.Metadata
	fmt.Fprintf(sb, "# Migration Report: %s\n\n", meta.Name)
	fmt.Fprintf(sb, "Compiled from %s sources at %s with compiler %s (schema %s).\n\n",
		meta.SourceLanguage, meta.GeneratedAt, meta.CompilerVersion, doc.Project.SchemaVersion)
}

func (g *Generator) writeSummary(sb *strings.Builder, doc *ir.Document, refs *graph.Graph) {
	m := refs.ComputeMetrics()
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Count |\n")
	sb.WriteString("| :--- | :--- |\n")
	fmt.Fprintf(sb, "| Suites | %d |\n", m.Suites)
	fmt.Fprintf(sb, "| Tests | %d |\n", m.Tests)
	fmt.Fprintf(sb, "| Targets | %d |\n", m.Targets)
	fmt.Fprintf(sb, "| Environments | %d |\n", len(doc.Environments))
	fmt.Fprintf(sb, "| Datasets | %d |\n", len(doc.Data))
	fmt.Fprintf(sb, "| Reference edges | %d |\n", m.Edges)
	fmt.Fprintf(sb, "| Unresolved steps | %d |\n", m.UnresolvedSteps)
	fmt.Fprintf(sb, "| Orphan targets | %d |\n", m.OrphanTargets)
	sb.WriteString("\n")
}

// writeSuites lists every suite with its claimed tests, then tests no suite
// claims. Suites and tests appear in document order.
func (g *Generator) writeSuites(sb *strings.Builder, doc *ir.Document) {
	sb.WriteString("## Suites\n\n")
	if len(doc.Suites) == 0 {
		sb.WriteString("No suites were extracted.\n\n")
		return
	}

	testsByID := make(map[string]ir.TestIR, len(doc.Tests))
	for _, t := range doc.Tests {
		testsByID[t.ID] = t
	}
	claimed := make(map[string]bool, len(doc.Tests))

	for _, suite := range doc.Suites {
		fmt.Fprintf(sb, "### %s\n\n", suite.Name)
		rows := make([]ir.TestIR, 0, len(suite.Tests))
		for _, id := range suite.Tests {
			t, ok := testsByID[id]
			if !ok {
				continue
			}
			claimed[id] = true
			rows = append(rows, t)
		}
		writeTestTable(sb, rows)
	}

	var unclaimed []ir.TestIR
	for _, t := range doc.Tests {
		if !claimed[t.ID] {
			unclaimed = append(unclaimed, t)
		}
	}
	if len(unclaimed) > 0 {
		sb.WriteString("### Tests without a suite\n\n")
		writeTestTable(sb, unclaimed)
	}
}

func writeTestTable(sb *strings.Builder, tests []ir.TestIR) {
	if len(tests) == 0 {
		sb.WriteString("No tests in this suite.\n\n")
		return
	}
	sb.WriteString("| Test | Steps | Resolved | Tags |\n")
	sb.WriteString("| :--- | :--- | :--- | :--- |\n")
	for _, t := range tests {
		resolved := 0
		for _, s := range t.Steps {
			if s.TargetID != nil {
				resolved++
			}
		}
		tags := "-"
		if len(t.Tags) > 0 {
			tags = strings.Join(t.Tags, ", ")
		}
		fmt.Fprintf(sb, "| `%s` | %d | %d | %s |\n", t.Name, len(t.Steps), resolved, tags)
	}
	sb.WriteString("\n")
}

// writeTargets groups targets under their owning page. Page-object targets
// head their own group; targets with no page context collect at the end.
func (g *Generator) writeTargets(sb *strings.Builder, doc *ir.Document) {
	sb.WriteString("## Targets by Page\n\n")
	if len(doc.Targets) == 0 {
		sb.WriteString("No targets were extracted.\n\n")
		return
	}

	groups, order := groupTargetsByPage(doc.Targets)
	for _, page := range order {
		fmt.Fprintf(sb, "### %s\n\n", page)
		sb.WriteString("| Target | Type | Role | Preferred Strategy | Stability |\n")
		sb.WriteString("| :--- | :--- | :--- | :--- | :--- |\n")
		for _, t := range groups[page] {
			strategy := "-"
			stability := "-"
			if t.PreferredStrategy != "" {
				strategy = "`" + t.PreferredStrategy + "`"
				stability = formatStability(t)
			}
			fmt.Fprintf(sb, "| `%s` | %s | %s | %s | %s |\n", t.Name, t.Type, t.Semantic.Role, strategy, stability)
		}
		sb.WriteString("\n")
	}
}

// groupTargetsByPage buckets targets by page name, keeping the first
// appearance order of each page. Extraction emits a page before its
// locators, so page groups follow source file order.
func groupTargetsByPage(targets []ir.TargetIR) (map[string][]ir.TargetIR, []string) {
	groups := make(map[string][]ir.TargetIR)
	order := []string{}
	for _, t := range targets {
		page := targetPage(t)
		if _, ok := groups[page]; !ok {
			order = append(order, page)
		}
		groups[page] = append(groups[page], t)
	}
	return groups, order
}

func targetPage(t ir.TargetIR) string {
	if t.Context.Page != nil && *t.Context.Page != "" {
		return *t.Context.Page
	}
	if t.Type == extract.KindPage {
		return t.Name
	}
	return "(unscoped)"
}

// formatStability prints the score of the preferred strategy.
func formatStability(t ir.TargetIR) string {
	for _, s := range t.SelectorStrategies {
		if s.Strategy == t.PreferredStrategy {
			return strconv.FormatFloat(s.StabilityScore, 'f', 2, 64)
		}
	}
	return "-"
}

// writeUnresolved lists every step that named a target the project does not
// contain. Steps without any target reference (bare assertions) are not
// unresolved.
func (g *Generator) writeUnresolved(sb *strings.Builder, doc *ir.Document) {
	sb.WriteString("## Unresolved Steps\n\n")
	count := 0
	for _, t := range doc.Tests {
		for i, s := range t.Steps {
			if s.TargetNameID == nil || s.TargetID != nil {
				continue
			}
			fmt.Fprintf(sb, "- `%s` step %d (`%s`) references `%s`, which matches no extracted target.\n",
				t.Name, i+1, s.Name, *s.TargetNameID)
			count++
		}
	}
	if count == 0 {
		sb.WriteString("Every step with a target reference resolved.\n")
	}
	sb.WriteString("\n")
}

func (g *Generator) writeGraph(sb *strings.Builder, refs *graph.Graph) {
	sb.WriteString("## Reference Graph\n\n")
	sb.WriteString(g.mermaid.Flowchart(refs))
}

func (g *Generator) impactSection(refs *graph.Graph, since string, rep *analysis.ImpactReport) string {
	var sb strings.Builder
	sb.WriteString("## Change Impact\n\n")
	fmt.Fprintf(&sb, "Source changes since `%s`.\n\n", since)
	if rep == nil || len(rep.ChangedFiles) == 0 {
		sb.WriteString("No changed source files to analyze.\n")
		return sb.String()
	}

	sb.WriteString("Changed files:\n\n")
	for _, f := range rep.ChangedFiles {
		fmt.Fprintf(&sb, "- `%s`\n", f)
	}
	sb.WriteString("\n")

	writeNodeList(&sb, "Directly affected targets", rep.DirectTargets)
	writeNodeList(&sb, "Affected tests", rep.AffectedTests)
	writeNodeList(&sb, "Affected suites", rep.AffectedSuites)

	if refs != nil && len(rep.DirectTargets) > 0 {
		roots := make([]string, 0, len(rep.DirectTargets))
		for _, n := range rep.DirectTargets {
			roots = append(roots, n.ID)
		}
		sb.WriteString("### Impacted subgraph\n\n")
		// Two hops reach suites through the tests that use a target.
		sb.WriteString(g.mermaid.FlowchartSubset(refs, refs.Subgraph(roots, 2)))
	}
	return sb.String()
}

func writeNodeList(sb *strings.Builder, heading string, nodes []graph.Node) {
	fmt.Fprintf(sb, "### %s\n\n", heading)
	if len(nodes) == 0 {
		sb.WriteString("None.\n\n")
		return
	}
	for _, n := range nodes {
		fmt.Fprintf(sb, "- `%s` (%s)\n", n.Name, n.ID)
	}
	sb.WriteString("\n")
}
