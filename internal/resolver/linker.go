package resolver

import (
	"testmig/internal/extract"
	"testmig/internal/ir"
)

// LinkStats counts resolution outcomes across the whole project.
type LinkStats struct {
	Suites            int
	Tests             int
	Targets           int
	DuplicateTargets  int
	StepsLinked       int
	StepsUnlinked     int
	TestsWithoutSuite int
}

// Linked is the project-level view after both linking phases.
type Linked struct {
	Suites  []ir.SuiteIR
	Tests   []ir.TestIR
	Targets []ir.TargetIR
	Stats   LinkStats
}

// Linker joins per-file extraction results into one project. Phase one
// materializes suites and targets so every ID exists; phase two builds tests
// against suite membership and the target name index. Records are consumed
// in accumulation order, which the pipeline keeps stable by visiting files
// sorted.
type Linker struct{}

func NewLinker() *Linker {
	return &Linker{}
}

type suiteMembership struct {
	id    string
	tests []string
}

// Link runs both phases over the accumulated records.
func (l *Linker) Link(tests []extract.TestRecord, suites []extract.SuiteRecord, targets []extract.TargetRecord) Linked {
	out := Linked{
		Suites: make([]ir.SuiteIR, 0, len(suites)),
		Tests:  make([]ir.TestIR, 0, len(tests)),
	}

	memberships := make([]suiteMembership, 0, len(suites))
	for _, rec := range suites {
		suite := ir.BuildSuite(rec)
		out.Suites = append(out.Suites, suite)
		memberships = append(memberships, suiteMembership{id: suite.ID, tests: rec.Tests})
	}

	out.Targets, out.Stats.DuplicateTargets = dedupeTargets(ir.BuildTargets(targets))
	nameIndex := ir.TargetNameIndex(out.Targets)

	// Each test belongs to the first suite that lists it; tests no suite
	// claims keep a null suite_id.
	for _, rec := range tests {
		suiteID := ""
		for _, m := range memberships {
			if containsString(m.tests, rec.Name) {
				suiteID = m.id
				break
			}
		}
		if suiteID == "" {
			out.Stats.TestsWithoutSuite++
		}

		test := ir.BuildTest(rec, suiteID, nameIndex)
		for _, step := range test.Steps {
			switch {
			case step.TargetID != nil:
				out.Stats.StepsLinked++
			case step.TargetNameID != nil:
				out.Stats.StepsUnlinked++
			}
		}
		out.Tests = append(out.Tests, test)
	}

	out.Stats.Suites = len(out.Suites)
	out.Stats.Tests = len(out.Tests)
	out.Stats.Targets = len(out.Targets)
	return out
}

// dedupeTargets drops targets whose deterministic ID already appeared,
// keeping the first occurrence. Identical pages or locators extracted from
// several files collapse to one entity.
func dedupeTargets(targets []ir.TargetIR) ([]ir.TargetIR, int) {
	seen := make(map[string]bool, len(targets))
	out := make([]ir.TargetIR, 0, len(targets))
	dropped := 0
	for _, t := range targets {
		if seen[t.ID] {
			dropped++
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, dropped
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
