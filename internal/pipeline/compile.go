package pipeline

import (
	"fmt"
	"log"
	"sort"
	"time"

	"testmig/internal/config"
	"testmig/internal/extract"
	"testmig/internal/ir"
	"testmig/internal/java"
	"testmig/internal/resolver"
)

// Compile drives one full compilation: source files in, one validated IR
// document out. Stages run synchronously in a fixed order and the first
// error aborts the run; the output file is only touched after the document
// passed schema validation.
type Compile struct {
	ProjectName    string
	SourceLanguage string
	OutputPath     string
	Environments   []config.Environment
	Data           []config.Dataset

	// GeneratedAt is stamped into the project metadata. The zero value
	// means the current UTC time; tests pin it so reruns stay
	// byte-identical.
	GeneratedAt time.Time
}

// Result reports what one run produced.
type Result struct {
	Document *ir.Document
	Files    int
	Stats    resolver.LinkStats
	Duration time.Duration
}

// accumulator keeps per-file extraction output in visit order. Lists are
// append-only; cross-file deduplication belongs to the linker.
type accumulator struct {
	tests        []extract.TestRecord
	suites       []extract.SuiteRecord
	targets      []extract.TargetRecord
	environments []string
}

func newAccumulator() *accumulator {
	return &accumulator{
		tests:        []extract.TestRecord{},
		suites:       []extract.SuiteRecord{},
		targets:      []extract.TargetRecord{},
		environments: []string{},
	}
}

func (a *accumulator) add(r *extract.Result) {
	a.tests = append(a.tests, r.Tests...)
	a.suites = append(a.suites, r.Suites...)
	a.targets = append(a.targets, r.Targets...)
	a.environments = append(a.environments, r.Environments...)
}

func NewCompile(cfg *config.Config) *Compile {
	return &Compile{
		ProjectName:    cfg.Project.Name,
		SourceLanguage: cfg.Project.SourceLanguage,
		OutputPath:     cfg.Output.Path,
		Environments:   cfg.Environments,
		Data:           cfg.Data,
	}
}

// Run compiles the given source files into one IR document and writes it to
// the configured output path. Files are visited in lexicographic order, a
// correctness requirement: entity IDs are order-independent but list order
// in the document follows visit order.
func (c *Compile) Run(files []string) (*Result, error) {
	start := time.Now()

	sorted := sortedPaths(files)
	fmt.Printf("📂 Compiling %d source files (project %s).\n", len(sorted), c.ProjectName)
	if len(sorted) == 0 {
		log.Printf("⚠️ No source files matched; the IR document will be empty.")
	}

	acc, err := c.extractStage(sorted)
	if err != nil {
		return nil, err
	}

	linked := c.linkStage(acc)
	doc := c.assembleStage(acc, linked)

	if err := c.validateStage(doc); err != nil {
		return nil, err
	}
	if err := c.writeStage(doc); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	fmt.Printf("✨ Done in %v.\n", elapsed)

	return &Result{
		Document: doc,
		Files:    len(sorted),
		Stats:    linked.Stats,
		Duration: elapsed,
	}, nil
}

// extractStage parses and extracts every file. One bad file fails the whole
// run; parse errors already carry the originating path.
func (c *Compile) extractStage(files []string) (*accumulator, error) {
	if c.SourceLanguage != java.Language {
		return nil, fmt.Errorf("unsupported source language %q", c.SourceLanguage)
	}

	parser := java.NewParser()
	acc := newAccumulator()
	for _, path := range files {
		tree, err := parser.ParseFile(path)
		if err != nil {
			return nil, err
		}
		result, err := extract.Extract(tree, c.ProjectName, c.SourceLanguage)
		if err != nil {
			return nil, err
		}
		acc.add(result)
	}

	fmt.Printf("📊 Extracted %d tests, %d suites, %d targets from %d files.\n",
		len(acc.tests), len(acc.suites), len(acc.targets), len(files))
	return acc, nil
}

func (c *Compile) linkStage(acc *accumulator) resolver.Linked {
	linked := resolver.NewLinker().Link(acc.tests, acc.suites, acc.targets)
	st := linked.Stats
	fmt.Printf("🔗 Linked %d suites, %d tests, %d targets.\n", st.Suites, st.Tests, st.Targets)
	fmt.Printf("  -> steps resolved: %d, unresolved: %d, tests without suite: %d\n",
		st.StepsLinked, st.StepsUnlinked, st.TestsWithoutSuite)
	if st.DuplicateTargets > 0 {
		fmt.Printf("  -> %d duplicate targets collapsed\n", st.DuplicateTargets)
	}
	return linked
}

// assembleStage builds the composite document. Environments and datasets
// come from configuration; extraction never produces them from source.
func (c *Compile) assembleStage(acc *accumulator, linked resolver.Linked) *ir.Document {
	environments := make([]ir.EnvironmentIR, 0, len(c.Environments))
	envNames := append([]string{}, acc.environments...)
	for _, env := range c.Environments {
		environments = append(environments, ir.BuildEnvironment(env.Name, env.BaseURL, env.Variables))
		envNames = append(envNames, env.Name)
	}

	data := make([]ir.TestDataIR, 0, len(c.Data))
	for _, ds := range c.Data {
		data = append(data, ir.BuildData(ds.Name, ds.Values))
	}

	testNames := make([]string, 0, len(acc.tests))
	for _, t := range acc.tests {
		testNames = append(testNames, t.Name)
	}
	suiteNames := make([]string, 0, len(acc.suites))
	for _, s := range acc.suites {
		suiteNames = append(suiteNames, s.Name)
	}

	generatedAt := c.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	doc := &ir.Document{
		Project:      ir.BuildProject(c.ProjectName, c.SourceLanguage, testNames, suiteNames, envNames, generatedAt),
		Tests:        linked.Tests,
		Suites:       linked.Suites,
		Targets:      linked.Targets,
		Data:         data,
		Environments: environments,
	}
	ir.NormalizeDocument(doc)
	return doc
}

func (c *Compile) validateStage(doc *ir.Document) error {
	if err := ir.ValidateDocument(doc); err != nil {
		return err
	}
	fmt.Println("✅ IR document passed schema validation.")
	return nil
}

func (c *Compile) writeStage(doc *ir.Document) error {
	if err := ir.NewWriter().Write(c.OutputPath, doc); err != nil {
		return err
	}
	fmt.Printf("💾 IR written to %s.\n", c.OutputPath)
	return nil
}

// sortedPaths copies before sorting so callers keep their slice.
func sortedPaths(files []string) []string {
	out := append([]string{}, files...)
	sort.Strings(out)
	return out
}
