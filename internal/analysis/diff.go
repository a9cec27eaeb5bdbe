package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"testmig/internal/ir"
)

// Entity kinds appearing in diffs.
const (
	KindTest        = "test"
	KindSuite       = "suite"
	KindTarget      = "target"
	KindEnvironment = "environment"
	KindData        = "data"
)

// EntityChange names one entity that differs between two documents.
type EntityChange struct {
	Kind string
	ID   string
	Name string
}

// Diff is an entity-level comparison of two IR documents. Because IDs hash
// entity names, a rename shows up as removed plus added; an in-place edit
// shows up as changed.
type Diff struct {
	Added   []EntityChange
	Removed []EntityChange
	Changed []EntityChange
}

func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

type entityRef struct {
	kind string
	id   string
	name string
	blob []byte
}

func (r entityRef) key() string {
	return r.kind + ":" + r.id
}

// DiffDocuments compares tests, suites, targets, environments, and datasets
// by deterministic ID. Project metadata is excluded: generated_at moves on
// every run and would mark every pair as different. Results are sorted by
// kind then ID.
func DiffDocuments(oldDoc, newDoc *ir.Document) (*Diff, error) {
	oldRefs, err := collectRefs(oldDoc)
	if err != nil {
		return nil, err
	}
	newRefs, err := collectRefs(newDoc)
	if err != nil {
		return nil, err
	}

	oldByKey := make(map[string]entityRef, len(oldRefs))
	for _, ref := range oldRefs {
		oldByKey[ref.key()] = ref
	}
	newByKey := make(map[string]entityRef, len(newRefs))
	for _, ref := range newRefs {
		newByKey[ref.key()] = ref
	}

	diff := &Diff{Added: []EntityChange{}, Removed: []EntityChange{}, Changed: []EntityChange{}}
	for _, ref := range newRefs {
		old, ok := oldByKey[ref.key()]
		if !ok {
			diff.Added = append(diff.Added, change(ref))
			continue
		}
		if !bytes.Equal(old.blob, ref.blob) {
			diff.Changed = append(diff.Changed, change(ref))
		}
	}
	for _, ref := range oldRefs {
		if _, ok := newByKey[ref.key()]; !ok {
			diff.Removed = append(diff.Removed, change(ref))
		}
	}

	sortChanges(diff.Added)
	sortChanges(diff.Removed)
	sortChanges(diff.Changed)
	return diff, nil
}

func change(ref entityRef) EntityChange {
	return EntityChange{Kind: ref.kind, ID: ref.id, Name: ref.name}
}

func sortChanges(changes []EntityChange) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Kind == changes[j].Kind {
			return changes[i].ID < changes[j].ID
		}
		return changes[i].Kind < changes[j].Kind
	})
}

func collectRefs(doc *ir.Document) ([]entityRef, error) {
	refs := []entityRef{}
	if doc == nil {
		return refs, nil
	}

	add := func(kind, id, name string, entity interface{}) error {
		blob, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to serialize %s %s for diff: %w", kind, id, err)
		}
		refs = append(refs, entityRef{kind: kind, id: id, name: name, blob: blob})
		return nil
	}

	for _, t := range doc.Tests {
		if err := add(KindTest, t.ID, t.Name, t); err != nil {
			return nil, err
		}
	}
	for _, s := range doc.Suites {
		if err := add(KindSuite, s.ID, s.Name, s); err != nil {
			return nil, err
		}
	}
	for _, t := range doc.Targets {
		if err := add(KindTarget, t.ID, t.Name, t); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Environments {
		if err := add(KindEnvironment, e.ID, e.Name, e); err != nil {
			return nil, err
		}
	}
	for _, d := range doc.Data {
		if err := add(KindData, d.ID, d.Name, d); err != nil {
			return nil, err
		}
	}
	return refs, nil
}
