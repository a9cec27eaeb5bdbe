package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DeterministicID hashes a namespaced key into a short stable identifier.
// Equal keys always produce equal IDs, across runs and machines.
func DeterministicID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

// ProjectID derives the ID for a project name.
func ProjectID(name string) string {
	return DeterministicID("project::" + name)
}

// SuiteID derives the ID for a suite name.
func SuiteID(name string) string {
	return DeterministicID("suite::" + name)
}

// TestID derives the ID for a test name.
func TestID(name string) string {
	return DeterministicID("test::" + name)
}

// TargetID derives the ID for a target. The type participates in the key so
// a page and a locator sharing a name stay distinct.
func TargetID(targetType, name string) string {
	return DeterministicID("target::" + targetType + "::" + name)
}

// StepID derives the ID for a step within a test. The positional index keeps
// repeated same-named steps distinct.
func StepID(testID string, index int, name string) string {
	return DeterministicID(fmt.Sprintf("%s::step::%d::%s", testID, index, name))
}

// EnvironmentID derives the ID for an environment name.
func EnvironmentID(name string) string {
	return DeterministicID("env::" + name)
}

// DataID derives the ID for a dataset name.
func DataID(name string) string {
	return DeterministicID("data::" + name)
}
