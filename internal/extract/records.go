package extract

// Target kinds produced by the extraction passes. The IR layer maps known
// kinds onto target types and passes anything else through untouched.
const (
	KindPage    = "page"
	KindLocator = "locator"
)

// Step types.
const (
	StepAction    = "action"
	StepAssertion = "assertion"
)

// TargetRecord is one locatable fact found in a source file: a page-object
// declaration or a concrete locator. Locator-only fields stay empty on pages.
type TargetRecord struct {
	Kind     string `json:"kind"`
	NodeID   string `json:"node_id"`
	Name     string `json:"name,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Value    string `json:"value,omitempty"`
	Page     string `json:"page,omitempty"`
	File     string `json:"file_path"`
}

// StepRecord is one extracted test step. The target fields carry whatever the
// symbol table resolved; both stay empty for unresolved steps and assertions.
type StepRecord struct {
	Type         string                 `json:"type"`
	Name         string                 `json:"name"`
	TargetNameID string                 `json:"target_name_id,omitempty"`
	TargetNodeID string                 `json:"target_node_id,omitempty"`
	Parameters   map[string]interface{} `json:"parameters"`
	Line         int                    `json:"line,omitempty"`
}

// TestRecord is one extracted test method with its steps in document order.
type TestRecord struct {
	Name          string       `json:"name"`
	NodeID        string       `json:"node_id"`
	File          string       `json:"file_path"`
	Tags          []string     `json:"tags"`
	EnvironmentID string       `json:"environment_id,omitempty"`
	DataID        string       `json:"data_id,omitempty"`
	Steps         []StepRecord `json:"steps"`
}

// SuiteRecord is one extracted suite (source class) and the names of the
// tests declared inside it.
type SuiteRecord struct {
	Name     string   `json:"name"`
	NodeID   string   `json:"node_id"`
	File     string   `json:"file_path"`
	ParentID string   `json:"parent_id,omitempty"`
	Tests    []string `json:"tests"`
}

// Result is the per-file extraction output handed to the pipeline. Lists are
// order-preserving; the pipeline concatenates them across files without
// reordering. Environments are never derived from source, so the list is
// always empty here and filled from configuration later.
type Result struct {
	ProjectName    string         `json:"project_name"`
	SourceLanguage string         `json:"source_language"`
	Tests          []TestRecord   `json:"tests"`
	Suites         []SuiteRecord  `json:"suites"`
	Targets        []TargetRecord `json:"targets"`
	Environments   []string       `json:"environments"`
}
