package ir

// SchemaVersion is the contract version of the composite IR document.
const SchemaVersion = "1.0.0"

// CompilerVersion stamps every generated document.
const CompilerVersion = "0.1.0"

// Step types carried by TestIR.
const (
	StepAction    = "action"
	StepAssertion = "assertion"
)

// ProjectMetadata identifies one compilation of one project.
type ProjectMetadata struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	GeneratedAt     string `json:"generated_at"`
	SourceLanguage  string `json:"source_language"`
	CompilerVersion string `json:"compiler_version"`
}

// ProjectIR is the top-level container entity. The name lists reference the
// detailed entities by name, in extraction order.
type ProjectIR struct {
	ID            string          `json:"id"`
	SchemaVersion string          `json:"schema_version"`
	Metadata      ProjectMetadata `json:"metadata"`
	Environments  []string        `json:"environments"`
	Suites        []string        `json:"suites"`
	Tests         []string        `json:"tests"`
}

// StepIR is one test step. targetId is the resolved reference into the
// targets list; targetNameId/targetNodeId carry the raw resolution
// provenance. All three stay null when resolution found nothing.
type StepIR struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	Name         string                 `json:"name"`
	TargetID     *string                `json:"targetId"`
	TargetNameID *string                `json:"targetNameId"`
	TargetNodeID *string                `json:"targetNodeId"`
	Parameters   map[string]interface{} `json:"parameters"`
}

// TestIR is one migrated test with its steps in source order.
type TestIR struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SuiteID       *string  `json:"suite_id"`
	EnvironmentID *string  `json:"environment_id"`
	DataID        *string  `json:"data_id"`
	Tags          []string `json:"tags"`
	Steps         []StepIR `json:"steps"`
}

// SuiteIR groups tests. The tests list holds deterministic test IDs in
// declaration order.
type SuiteIR struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ParentID    *string  `json:"parent_id"`
	Tests       []string `json:"tests"`
}

// TargetContext places a target within the UI: the owning page and, when
// known, the component or frame inside it.
type TargetContext struct {
	Page      *string `json:"page"`
	Component *string `json:"component"`
	Frame     *string `json:"frame"`
}

// SemanticInfo carries the inferred meaning of a target.
type SemanticInfo struct {
	Role         string `json:"role"`
	BusinessName string `json:"businessName"`
}

// SelectorStrategy is one way to locate a target, scored for resilience.
type SelectorStrategy struct {
	Strategy       string  `json:"strategy"`
	Value          string  `json:"value"`
	StabilityScore float64 `json:"stabilityScore"`
}

// TargetIR is a resolvable UI element (or page) with its selector
// strategies. Metadata keeps the source provenance: file path and the
// originating AST node id.
type TargetIR struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Context            TargetContext      `json:"context"`
	Semantic           SemanticInfo       `json:"semantic"`
	SelectorStrategies []SelectorStrategy `json:"selectorStrategies"`
	PreferredStrategy  string             `json:"preferredStrategy"`
	Metadata           map[string]string  `json:"metadata"`
}

// EnvironmentIR is a configured execution environment.
type EnvironmentIR struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	BaseURL   *string           `json:"base_url"`
	Variables map[string]string `json:"variables"`
}

// TestDataIR is a configured dataset referenced by tests.
type TestDataIR struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Values map[string]interface{} `json:"values"`
}

// Document is the composite artifact written to disk. Every key is present
// even when its list is empty.
type Document struct {
	Project      ProjectIR       `json:"project"`
	Tests        []TestIR        `json:"tests"`
	Suites       []SuiteIR       `json:"suites"`
	Targets      []TargetIR      `json:"targets"`
	Data         []TestDataIR    `json:"data"`
	Environments []EnvironmentIR `json:"environments"`
}

// NormalizeDocument replaces nil collections with empty ones so the
// serialized form always carries every key with a concrete value.
func NormalizeDocument(d *Document) {
	if d == nil {
		return
	}
	ensureProjectLists(&d.Project)

	if d.Tests == nil {
		d.Tests = []TestIR{}
	}
	for i := range d.Tests {
		ensureTestLists(&d.Tests[i])
	}

	if d.Suites == nil {
		d.Suites = []SuiteIR{}
	}
	for i := range d.Suites {
		if d.Suites[i].Tests == nil {
			d.Suites[i].Tests = []string{}
		}
	}

	if d.Targets == nil {
		d.Targets = []TargetIR{}
	}
	for i := range d.Targets {
		ensureTargetCollections(&d.Targets[i])
	}

	if d.Data == nil {
		d.Data = []TestDataIR{}
	}
	for i := range d.Data {
		if d.Data[i].Values == nil {
			d.Data[i].Values = map[string]interface{}{}
		}
	}

	if d.Environments == nil {
		d.Environments = []EnvironmentIR{}
	}
	for i := range d.Environments {
		if d.Environments[i].Variables == nil {
			d.Environments[i].Variables = map[string]string{}
		}
	}
}

func ensureProjectLists(p *ProjectIR) {
	if p.Environments == nil {
		p.Environments = []string{}
	}
	if p.Suites == nil {
		p.Suites = []string{}
	}
	if p.Tests == nil {
		p.Tests = []string{}
	}
}

func ensureTestLists(t *TestIR) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.Steps == nil {
		t.Steps = []StepIR{}
	}
	for i := range t.Steps {
		if t.Steps[i].Parameters == nil {
			t.Steps[i].Parameters = map[string]interface{}{}
		}
	}
}

func ensureTargetCollections(t *TargetIR) {
	if t.SelectorStrategies == nil {
		t.SelectorStrategies = []SelectorStrategy{}
	}
	if t.Metadata == nil {
		t.Metadata = map[string]string{}
	}
}
