package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"testmig/internal/ir"
)

// createdAtFormat is RFC3339 with fixed-width nanoseconds so that string
// ordering in SQL matches chronological ordering.
const createdAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database, creating the parent
// directory when needed so the default `.testmig/snapshots.db` path works in
// a fresh checkout.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			created_at TEXT NOT NULL,
			compiler_version TEXT NOT NULL,
			doc_hash TEXT NOT NULL,
			document BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshot serializes the document deterministically, hashes it, and
// stores it under a fresh UUID.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, doc *ir.Document) (Snapshot, error) {
	if doc == nil {
		return Snapshot{}, fmt.Errorf("cannot snapshot a nil document")
	}

	payload, err := ir.MarshalDeterministic(doc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to serialize document for snapshot: %w", err)
	}
	sum := sha256.Sum256(payload)

	snap := Snapshot{
		ID:              uuid.NewString(),
		Project:         doc.Project.Metadata.Name,
		CreatedAt:       time.Now().UTC(),
		CompilerVersion: ir.CompilerVersion,
		DocHash:         hex.EncodeToString(sum[:]),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, project, created_at, compiler_version, doc_hash, document)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Project, snap.CreatedAt.Format(createdAtFormat), snap.CompilerVersion, snap.DocHash, payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context, id string) (Snapshot, *ir.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project, created_at, compiler_version, doc_hash, document
		FROM snapshots WHERE id = ?
	`, id)

	snap, doc, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, nil, fmt.Errorf("snapshot %s not found", id)
		}
		return Snapshot{}, nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	return snap, doc, nil
}

func (s *SQLiteStore) LoadLatest(ctx context.Context, project string) (Snapshot, *ir.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, project, created_at, compiler_version, doc_hash, document
		FROM snapshots WHERE project = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1
	`, project)

	snap, doc, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, nil, fmt.Errorf("no snapshots stored for project %q", project)
		}
		return Snapshot{}, nil, fmt.Errorf("failed to load latest snapshot for %s: %w", project, err)
	}
	return snap, doc, nil
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, project string) ([]Snapshot, error) {
	query := `
		SELECT id, project, created_at, compiler_version, doc_hash
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
	`
	args := []interface{}{}
	if project != "" {
		query = `
			SELECT id, project, created_at, compiler_version, doc_hash
			FROM snapshots WHERE project = ?
			ORDER BY created_at DESC, rowid DESC
		`
		args = append(args, project)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.Project, &createdAt, &snap.CompilerVersion, &snap.DocHash); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot timestamp %q: %w", createdAt, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (Snapshot, *ir.Document, error) {
	var snap Snapshot
	var createdAt string
	var payload []byte
	if err := row.Scan(&snap.ID, &snap.Project, &createdAt, &snap.CompilerVersion, &snap.DocHash, &payload); err != nil {
		return Snapshot{}, nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Snapshot{}, nil, fmt.Errorf("failed to parse snapshot timestamp %q: %w", createdAt, err)
	}
	snap.CreatedAt = parsed

	doc, err := ir.UnmarshalDocument(payload)
	if err != nil {
		return Snapshot{}, nil, err
	}
	return snap, doc, nil
}
