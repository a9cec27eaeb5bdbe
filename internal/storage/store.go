package storage

import (
	"context"
	"time"

	"testmig/internal/ir"
)

// Snapshot is the stored record of one compilation run. The ID is a random
// run identifier, never part of the IR content itself; doc_hash is the
// SHA-256 of the document's deterministic serialization, so two runs over
// identical sources carry the same hash under different IDs.
type Snapshot struct {
	ID              string
	Project         string
	CreatedAt       time.Time
	CompilerVersion string
	DocHash         string
}

// Store persists compiled IR documents for later diffing and reporting.
type Store interface {
	// SaveSnapshot stores the document under a fresh run ID.
	SaveSnapshot(ctx context.Context, doc *ir.Document) (Snapshot, error)

	// LoadSnapshot retrieves one snapshot and its document by run ID.
	LoadSnapshot(ctx context.Context, id string) (Snapshot, *ir.Document, error)

	// LoadLatest retrieves the most recent snapshot for a project.
	LoadLatest(ctx context.Context, project string) (Snapshot, *ir.Document, error)

	// ListSnapshots returns snapshot metadata for a project, newest first.
	// An empty project lists everything.
	ListSnapshots(ctx context.Context, project string) ([]Snapshot, error)

	Close() error
}
