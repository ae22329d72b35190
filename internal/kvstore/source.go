// Package kvstore provides the persisted key-value stores kcal keeps its
// settings and tutorial progress in. A store maps string keys to ints and
// bools and survives restarts; the backend is chosen by a Source.
package kvstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/kcal/pkg/metrics"
)

// SourceType identifies the backend of a store.
type SourceType string

const (
	// SourceTypeJSON is a single JSON document on disk
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a SQLite database with a kv table
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeMemory lives only as long as the process
	SourceTypeMemory SourceType = "memory"
)

// Common errors.
var (
	ErrKindMismatch = errors.New("stored value has a different kind")
	ErrClosed       = errors.New("store is closed")
)

// Value kinds as written to disk.
const (
	kindInt  = "int"
	kindBool = "bool"
)

// Store is a persisted mapping from keys to ints and bools.
type Store interface {
	Int(key string) (int, bool, error)
	SetInt(key string, v int) error
	Bool(key string) (bool, bool, error)
	SetBool(key string, v bool) error
	Close() error
}

// Source describes where a store lives.
type Source struct {
	// Type selects the backend
	Type SourceType `json:"type" yaml:"type"`
	// Path is the file backing the store (unused for memory)
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// String returns a human-readable description of the source
func (s Source) String() string {
	if s.Type == SourceTypeMemory {
		return string(s.Type)
	}
	return fmt.Sprintf("%s (%s)", s.Path, s.Type)
}

// DetectSource picks a backend from the file extension. Unknown extensions
// are treated as JSON.
func DetectSource(path string) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return Source{Type: SourceTypeSQLite, Path: path}
	case "":
		if path == "" || path == ":memory:" {
			return Source{Type: SourceTypeMemory}
		}
	}
	return Source{Type: SourceTypeJSON, Path: path}
}

// Open opens the store described by source, creating it if needed.
func Open(source Source) (Store, error) {
	defer metrics.Timer(metrics.StoreOpen)()
	switch source.Type {
	case SourceTypeMemory:
		return NewMemory(), nil
	case SourceTypeJSON:
		return OpenJSONFile(source.Path)
	case SourceTypeSQLite:
		return OpenSQLite(source.Path)
	case "":
		return Open(DetectSource(source.Path))
	default:
		return nil, fmt.Errorf("unknown store type %q", source.Type)
	}
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*JSONFile)(nil)
	_ Store = (*SQLite)(nil)
)
