package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/kcal/pkg/debug"
	"github.com/vanderheijden86/kcal/pkg/metrics"
)

// jsonDocument is the on-disk layout of a JSONFile.
type jsonDocument struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

const jsonDocumentVersion = 1

var errCorrupt = errors.New("unparseable store")

// JSONFile keeps every key in one JSON document. Each write rewrites the
// whole file through a temp file and rename.
type JSONFile struct {
	path string

	mu     sync.RWMutex
	values map[string]json.RawMessage
	closed bool
}

// OpenJSONFile loads path, or starts empty if it does not exist yet. A file
// that does not parse is moved aside to path+".corrupt" and the store starts
// empty.
func OpenJSONFile(path string) (*JSONFile, error) {
	if path == "" {
		return nil, fmt.Errorf("json store: empty path")
	}
	f := &JSONFile{path: path}
	err := f.Reload()
	if errors.Is(err, errCorrupt) {
		debug.Log("kvstore: %v (starting empty)", err)
		if rerr := os.Rename(path, path+".corrupt"); rerr != nil {
			debug.Log("kvstore: moving aside %s: %v", path, rerr)
		}
		f.values = make(map[string]json.RawMessage)
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the backing file.
func (f *JSONFile) Path() string { return f.path }

// Reload replaces the cached values with the file contents. A missing or
// empty file reads as an empty store. The read happens under the write lock
// so it cannot overwrite a concurrent put with older contents.
func (f *JSONFile) Reload() error {
	defer metrics.Timer(metrics.StoreReload)()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	values, err := readJSONDocument(f.path)
	if err != nil {
		return err
	}
	f.values = values
	return nil
}

func readJSONDocument(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("reading store: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]json.RawMessage), nil
	}
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w %s: %v", errCorrupt, path, err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]json.RawMessage)
	}
	return doc.Values, nil
}

// Int returns the int stored under key.
func (f *JSONFile) Int(key string) (int, bool, error) {
	var v int
	ok, err := f.get(key, &v)
	return v, ok, err
}

// Bool returns the bool stored under key.
func (f *JSONFile) Bool(key string) (bool, bool, error) {
	var v bool
	ok, err := f.get(key, &v)
	return v, ok, err
}

// SetInt stores v under key and writes the file.
func (f *JSONFile) SetInt(key string, v int) error {
	return f.put(key, v)
}

// SetBool stores v under key and writes the file.
func (f *JSONFile) SetBool(key string, v bool) error {
	return f.put(key, v)
}

// Close releases the store. The file stays on disk.
func (f *JSONFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *JSONFile) get(key string, dst any) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return false, ErrClosed
	}
	raw, ok := f.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s", ErrKindMismatch, key)
	}
	return true, nil
}

func (f *JSONFile) put(key string, v any) error {
	defer metrics.Timer(metrics.StoreWrite)()
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}

	next := make(map[string]json.RawMessage, len(f.values)+1)
	for k, existing := range f.values {
		next[k] = existing
	}
	next[key] = raw
	if err := writeJSONDocument(f.path, next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func writeJSONDocument(path string, values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(jsonDocument{Version: jsonDocumentVersion, Values: values}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}
