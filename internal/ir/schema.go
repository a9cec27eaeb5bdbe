package ir

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema is the wire contract for the composite IR document. The
// validator runs before every write so a malformed document never reaches
// disk.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://testmig.dev/schemas/ir-document.schema.json",
  "title": "IR Document",
  "type": "object",
  "required": ["project", "tests", "suites", "targets", "data", "environments"],
  "additionalProperties": false,
  "properties": {
    "project": {
      "type": "object",
      "required": ["id", "schema_version", "metadata", "environments", "suites", "tests"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "schema_version": {"type": "string"},
        "metadata": {
          "type": "object",
          "required": ["name", "version", "generated_at", "source_language", "compiler_version"],
          "properties": {
            "name": {"type": "string"},
            "version": {"type": "string"},
            "generated_at": {"type": "string"},
            "source_language": {"type": "string"},
            "compiler_version": {"type": "string"}
          }
        },
        "environments": {"type": "array", "items": {"type": "string"}},
        "suites": {"type": "array", "items": {"type": "string"}},
        "tests": {"type": "array", "items": {"type": "string"}}
      }
    },
    "tests": {"type": "array", "items": {"$ref": "#/definitions/test"}},
    "suites": {"type": "array", "items": {"$ref": "#/definitions/suite"}},
    "targets": {"type": "array", "items": {"$ref": "#/definitions/target"}},
    "data": {"type": "array", "items": {"$ref": "#/definitions/testData"}},
    "environments": {"type": "array", "items": {"$ref": "#/definitions/environment"}}
  },
  "definitions": {
    "id": {"type": "string", "pattern": "^[0-9a-f]{12}$"},
    "nullableString": {"type": ["string", "null"]},
    "test": {
      "type": "object",
      "required": ["id", "name", "suite_id", "environment_id", "data_id", "tags", "steps"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "name": {"type": "string"},
        "suite_id": {"$ref": "#/definitions/nullableString"},
        "environment_id": {"$ref": "#/definitions/nullableString"},
        "data_id": {"$ref": "#/definitions/nullableString"},
        "tags": {"type": "array", "items": {"type": "string"}},
        "steps": {"type": "array", "items": {"$ref": "#/definitions/step"}}
      }
    },
    "step": {
      "type": "object",
      "required": ["id", "type", "name", "targetId", "targetNameId", "targetNodeId", "parameters"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "type": {"enum": ["action", "assertion"]},
        "name": {"type": "string"},
        "targetId": {"$ref": "#/definitions/nullableString"},
        "targetNameId": {"$ref": "#/definitions/nullableString"},
        "targetNodeId": {"$ref": "#/definitions/nullableString"},
        "parameters": {"type": "object"}
      }
    },
    "suite": {
      "type": "object",
      "required": ["id", "name", "description", "parent_id", "tests"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "name": {"type": "string"},
        "description": {"type": "string"},
        "parent_id": {"$ref": "#/definitions/nullableString"},
        "tests": {"type": "array", "items": {"type": "string"}}
      }
    },
    "target": {
      "type": "object",
      "required": ["id", "name", "type", "context", "semantic", "selectorStrategies", "preferredStrategy", "metadata"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "name": {"type": "string"},
        "type": {"type": "string"},
        "context": {
          "type": "object",
          "required": ["page", "component", "frame"],
          "properties": {
            "page": {"$ref": "#/definitions/nullableString"},
            "component": {"$ref": "#/definitions/nullableString"},
            "frame": {"$ref": "#/definitions/nullableString"}
          }
        },
        "semantic": {
          "type": "object",
          "required": ["role", "businessName"],
          "properties": {
            "role": {"type": "string"},
            "businessName": {"type": "string"}
          }
        },
        "selectorStrategies": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["strategy", "value", "stabilityScore"],
            "properties": {
              "strategy": {"type": "string"},
              "value": {"type": "string"},
              "stabilityScore": {"type": "number", "minimum": 0, "maximum": 1}
            }
          }
        },
        "preferredStrategy": {"type": "string"},
        "metadata": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "environment": {
      "type": "object",
      "required": ["id", "name", "base_url", "variables"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "name": {"type": "string"},
        "base_url": {"$ref": "#/definitions/nullableString"},
        "variables": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "testData": {
      "type": "object",
      "required": ["id", "name", "values"],
      "properties": {
        "id": {"$ref": "#/definitions/id"},
        "name": {"type": "string"},
        "values": {"type": "object"}
      }
    }
  }
}`

var (
	schemaMu       sync.Mutex
	compiledSchema *jsonschema.Schema
)

func documentSchemaCompiled() (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if compiledSchema != nil {
		return compiledSchema, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("ir-document.schema.json", strings.NewReader(documentSchema)); err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile("ir-document.schema.json")
	if err != nil {
		return nil, err
	}
	compiledSchema = compiled
	return compiled, nil
}

// Validate checks the structural invariants the schema cannot express:
// presence of the container and uniqueness of entity IDs.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("ir document is nil")
	}
	if d.Project.ID == "" {
		return fmt.Errorf("project id is required")
	}
	if d.Project.SchemaVersion == "" {
		return fmt.Errorf("schema_version is required")
	}

	testIDs := make(map[string]bool, len(d.Tests))
	for _, t := range d.Tests {
		if t.ID == "" {
			return fmt.Errorf("test id is required")
		}
		if testIDs[t.ID] {
			return fmt.Errorf("duplicate test id: %s", t.ID)
		}
		testIDs[t.ID] = true
	}

	suiteIDs := make(map[string]bool, len(d.Suites))
	for _, s := range d.Suites {
		if s.ID == "" {
			return fmt.Errorf("suite id is required")
		}
		if suiteIDs[s.ID] {
			return fmt.Errorf("duplicate suite id: %s", s.ID)
		}
		suiteIDs[s.ID] = true
	}

	targetIDs := make(map[string]bool, len(d.Targets))
	for _, t := range d.Targets {
		if t.ID == "" {
			return fmt.Errorf("target id is required")
		}
		if targetIDs[t.ID] {
			return fmt.Errorf("duplicate target id: %s", t.ID)
		}
		targetIDs[t.ID] = true
	}
	return nil
}

// ValidateDocument runs the structural checks and then the JSON schema over
// the serialized form, so validation sees exactly what would hit disk.
func ValidateDocument(doc *Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	schema, err := documentSchemaCompiled()
	if err != nil {
		return fmt.Errorf("failed to compile ir document schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal ir document for schema validation: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize ir document for schema validation: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("ir document schema validation failed: %w", err)
	}
	return nil
}
