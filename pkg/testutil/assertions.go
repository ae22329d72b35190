// Package testutil holds helpers shared by kcal's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

// IntReader is the read side of a key-value store.
type IntReader interface {
	Int(key string) (int, bool, error)
}

// BoolReader is the read side of a key-value store.
type BoolReader interface {
	Bool(key string) (bool, bool, error)
}

// AssertStoredInt verifies that key holds want.
func AssertStoredInt(t *testing.T, store IntReader, key string, want int) {
	t.Helper()

	got, ok, err := store.Int(key)
	if err != nil {
		t.Fatalf("reading %s: %v", key, err)
	}
	if !ok {
		t.Fatalf("%s not stored, want %d", key, want)
	}
	if got != want {
		t.Errorf("%s = %d, want %d", key, got, want)
	}
}

// AssertStoredBool verifies that key holds want. A missing key reads as false.
func AssertStoredBool(t *testing.T, store BoolReader, key string, want bool) {
	t.Helper()

	got, _, err := store.Bool(key)
	if err != nil {
		t.Fatalf("reading %s: %v", key, err)
	}
	if got != want {
		t.Errorf("%s = %v, want %v", key, got, want)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// WriteStateFile writes values as a JSON store document to dir/name, the way
// another kcal process would, and returns the path.
func WriteStateFile(t *testing.T, dir, name string, values map[string]any) string {
	t.Helper()

	doc := struct {
		Version int            `json:"version"`
		Values  map[string]any `json:"values"`
	}{Version: 1, Values: values}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal state: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create state dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write state file: %v", err)
	}
	return path
}
