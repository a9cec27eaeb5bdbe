package ir

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists IR documents as deterministic JSON: sorted object keys,
// two-space indent, trailing newline. Serialization runs before any file
// operation and the bytes land via temp file plus rename, so a failed run
// never leaves a partial document behind.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes data to path, creating parent directories as needed.
// Repeated calls with unchanged input produce byte-identical files.
func (w *Writer) Write(path string, data interface{}) error {
	out, err := MarshalDeterministic(data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ir-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp output file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write IR document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close IR output: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move IR document into place: %w", err)
	}
	return nil
}

// UnmarshalDocument decodes a serialized document, as stored in snapshots or
// written by the Writer.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode IR document: %w", err)
	}
	return &doc, nil
}

// MarshalDeterministic renders data as indented JSON with sorted keys. The
// value round-trips through a generic form so key order never depends on
// struct field order.
func MarshalDeterministic(data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize IR document: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to normalize IR document: %w", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render IR document: %w", err)
	}
	return append(out, '\n'), nil
}
