package kvstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/kcal/pkg/metrics"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	kind       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLite keeps keys in a single kv table.
type SQLite struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	closed bool
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// One writer keeps write-through ordering simple.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }

// Int returns the int stored under key.
func (s *SQLite) Int(key string) (int, bool, error) {
	raw, ok, err := s.get(key, kindInt)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s", ErrKindMismatch, key)
	}
	return v, true, nil
}

// Bool returns the bool stored under key.
func (s *SQLite) Bool(key string) (bool, bool, error) {
	raw, ok, err := s.get(key, kindBool)
	if err != nil || !ok {
		return false, ok, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("%w: %s", ErrKindMismatch, key)
	}
	return v, true, nil
}

// SetInt stores v under key.
func (s *SQLite) SetInt(key string, v int) error {
	return s.put(key, strconv.Itoa(v), kindInt)
}

// SetBool stores v under key.
func (s *SQLite) SetBool(key string, v bool) error {
	return s.put(key, strconv.FormatBool(v), kindBool)
}

// Close closes the database connection
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLite) get(key, kind string) (string, bool, error) {
	defer metrics.Timer(metrics.StoreRead)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}

	var value, storedKind string
	err := s.db.QueryRow(`SELECT value, kind FROM kv WHERE key = ?`, key).Scan(&value, &storedKind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	if storedKind != kind {
		return "", false, fmt.Errorf("%w: %s is %s", ErrKindMismatch, key, storedKind)
	}
	return value, true, nil
}

func (s *SQLite) put(key, value, kind string) error {
	defer metrics.Timer(metrics.StoreWrite)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, kind, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, kind = excluded.kind, updated_at = excluded.updated_at`,
		key, value, kind)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
