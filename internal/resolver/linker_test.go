package resolver

import (
	"testing"

	"testmig/internal/extract"
	"testmig/internal/ir"
)

func TestLinker_Link(t *testing.T) {
	suites := []extract.SuiteRecord{
		{Name: "LoginTest", NodeID: "suite_1", File: "LoginTest.java", Tests: []string{"testLogin"}},
		{Name: "CheckoutTest", NodeID: "suite_2", File: "CheckoutTest.java", Tests: []string{"testLogin", "testCheckout"}},
	}
	targets := []extract.TargetRecord{
		{Kind: extract.KindLocator, NodeID: "node_3", Name: "emailInput", Strategy: "id", Value: "email", Page: "LoginPage", File: "LoginPage.java"},
	}
	tests := []extract.TestRecord{
		{Name: "testLogin", Steps: []extract.StepRecord{
			{Type: extract.StepAction, Name: "enterEmail", TargetNameID: "emailInput", TargetNodeID: "node_9"},
			{Type: extract.StepAction, Name: "clickLogin", TargetNameID: "loginButton"},
		}},
		{Name: "testOrphan"},
	}

	linked := NewLinker().Link(tests, suites, targets)

	if len(linked.Suites) != 2 || len(linked.Tests) != 2 || len(linked.Targets) != 1 {
		t.Fatalf("unexpected linked sizes: %+v", linked.Stats)
	}

	login := linked.Tests[0]
	if login.SuiteID == nil || *login.SuiteID != ir.SuiteID("LoginTest") {
		t.Fatalf("testLogin should belong to the first suite listing it, got %v", login.SuiteID)
	}
	if linked.Tests[1].SuiteID != nil {
		t.Fatalf("testOrphan should have no suite, got %v", *linked.Tests[1].SuiteID)
	}

	first := login.Steps[0]
	if first.TargetID == nil || *first.TargetID != ir.TargetID("locator", "emailInput") {
		t.Fatalf("enterEmail step should link to the extracted locator, got %v", first.TargetID)
	}
	if login.Steps[1].TargetID != nil {
		t.Fatalf("clickLogin references an unknown target and must stay null")
	}

	want := LinkStats{Suites: 2, Tests: 2, Targets: 1, StepsLinked: 1, StepsUnlinked: 1, TestsWithoutSuite: 1}
	if linked.Stats != want {
		t.Fatalf("unexpected stats: got %+v want %+v", linked.Stats, want)
	}
}

func TestLinker_DedupesIdenticalTargetsAcrossFiles(t *testing.T) {
	targets := []extract.TargetRecord{
		{Kind: extract.KindPage, NodeID: "suite_1", Name: "BasePage", File: "a/BasePage.java"},
		{Kind: extract.KindPage, NodeID: "suite_1", Name: "BasePage", File: "b/BasePage.java"},
	}

	linked := NewLinker().Link(nil, nil, targets)

	if len(linked.Targets) != 1 {
		t.Fatalf("identical targets should collapse, got %d", len(linked.Targets))
	}
	if linked.Targets[0].Metadata["file_path"] != "a/BasePage.java" {
		t.Fatalf("first occurrence should win, got %q", linked.Targets[0].Metadata["file_path"])
	}
	if linked.Stats.DuplicateTargets != 1 {
		t.Fatalf("expected 1 duplicate target, got %d", linked.Stats.DuplicateTargets)
	}
}
