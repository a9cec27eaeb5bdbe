package ir

import (
	"time"

	"testmig/internal/extract"
)

// BuildProject derives the container entity. The environment, suite, and
// test lists carry names in extraction order; generatedAt is injected so
// callers control whether repeated runs stamp identical documents.
func BuildProject(name, sourceLanguage string, tests, suites, environments []string, generatedAt time.Time) ProjectIR {
	return ProjectIR{
		ID:            ProjectID(name),
		SchemaVersion: SchemaVersion,
		Metadata: ProjectMetadata{
			Name:            name,
			Version:         "1.0.0",
			GeneratedAt:     generatedAt.UTC().Format(time.RFC3339),
			SourceLanguage:  sourceLanguage,
			CompilerVersion: CompilerVersion,
		},
		Environments: emptyIfNil(environments),
		Suites:       emptyIfNil(suites),
		Tests:        emptyIfNil(tests),
	}
}

// BuildSuite derives a suite entity. Contained test names map to their
// deterministic test IDs, which need no global state to compute.
func BuildSuite(rec extract.SuiteRecord) SuiteIR {
	testIDs := make([]string, 0, len(rec.Tests))
	for _, name := range rec.Tests {
		testIDs = append(testIDs, TestID(name))
	}

	suite := SuiteIR{
		ID:          SuiteID(rec.Name),
		Name:        rec.Name,
		Description: "",
		Tests:       testIDs,
	}
	if rec.ParentID != "" {
		suite.ParentID = strPtr(rec.ParentID)
	}
	return suite
}

// BuildTest derives a test entity and its steps. Step IDs include the
// positional index so same-named steps stay distinct. Each step's targetId
// comes from the project-wide name index; a miss stays null.
func BuildTest(rec extract.TestRecord, suiteID string, targetNameToID map[string]string) TestIR {
	testID := TestID(rec.Name)

	steps := make([]StepIR, 0, len(rec.Steps))
	for i, s := range rec.Steps {
		step := StepIR{
			ID:         StepID(testID, i, s.Name),
			Type:       s.Type,
			Name:       s.Name,
			Parameters: s.Parameters,
		}
		if step.Parameters == nil {
			step.Parameters = map[string]interface{}{}
		}
		if s.TargetNameID != "" {
			step.TargetNameID = strPtr(s.TargetNameID)
			if id, ok := targetNameToID[s.TargetNameID]; ok {
				step.TargetID = strPtr(id)
			}
		}
		if s.TargetNodeID != "" {
			step.TargetNodeID = strPtr(s.TargetNodeID)
		}
		steps = append(steps, step)
	}

	test := TestIR{
		ID:    testID,
		Name:  rec.Name,
		Tags:  emptyIfNil(rec.Tags),
		Steps: steps,
	}
	if suiteID != "" {
		test.SuiteID = strPtr(suiteID)
	}
	if rec.EnvironmentID != "" {
		test.EnvironmentID = strPtr(rec.EnvironmentID)
	}
	if rec.DataID != "" {
		test.DataID = strPtr(rec.DataID)
	}
	return test
}

// BuildTargets normalizes extracted target records into target entities.
// Locator records keep their selector as a scored strategy; page records
// carry none; records with a blank kind pass through as unknown.
func BuildTargets(records []extract.TargetRecord) []TargetIR {
	targets := make([]TargetIR, 0, len(records))
	for _, rec := range records {
		targets = append(targets, buildTarget(rec))
	}
	return targets
}

func buildTarget(rec extract.TargetRecord) TargetIR {
	targetType := rec.Kind
	if targetType == "" {
		targetType = "unknown"
	}

	// Anonymous locators fall back to their AST node id so the target
	// remains addressable.
	name := rec.Name
	if name == "" {
		name = rec.NodeID
	}

	target := TargetIR{
		ID:   TargetID(targetType, name),
		Name: name,
		Type: targetType,
		Semantic: SemanticInfo{
			Role:         InferRole(name),
			BusinessName: BusinessName(name),
		},
		SelectorStrategies: []SelectorStrategy{},
		Metadata: map[string]string{
			"file_path": rec.File,
			"id":        rec.NodeID,
		},
	}
	if targetType == extract.KindPage {
		target.Semantic.Role = "page"
	}
	if rec.Page != "" {
		target.Context.Page = strPtr(rec.Page)
	}

	if rec.Strategy != "" {
		value := rec.Value
		if value == "" {
			value = rec.Strategy
		}
		target.SelectorStrategies = append(target.SelectorStrategies, SelectorStrategy{
			Strategy:       rec.Strategy,
			Value:          value,
			StabilityScore: StabilityScore(rec.Strategy, value),
		})
	}
	target.PreferredStrategy = PreferredStrategy(target.SelectorStrategies)
	return target
}

// TargetNameIndex maps target names to their deterministic IDs. Later
// entries overwrite earlier ones; extraction order is fixed, so the winner
// is stable.
func TargetNameIndex(targets []TargetIR) map[string]string {
	index := make(map[string]string, len(targets))
	for _, t := range targets {
		index[t.Name] = t.ID
	}
	return index
}

// BuildEnvironment derives an environment entity from configured values.
func BuildEnvironment(name, baseURL string, variables map[string]string) EnvironmentIR {
	env := EnvironmentIR{
		ID:        EnvironmentID(name),
		Name:      name,
		Variables: variables,
	}
	if env.Variables == nil {
		env.Variables = map[string]string{}
	}
	if baseURL != "" {
		env.BaseURL = strPtr(baseURL)
	}
	return env
}

// BuildData derives a dataset entity from configured values.
func BuildData(name string, values map[string]interface{}) TestDataIR {
	data := TestDataIR{
		ID:     DataID(name),
		Name:   name,
		Values: values,
	}
	if data.Values == nil {
		data.Values = map[string]interface{}{}
	}
	return data
}

func strPtr(s string) *string { return &s }

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
