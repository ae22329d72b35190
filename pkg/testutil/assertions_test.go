package testutil

import (
	"testing"

	"github.com/vanderheijden86/kcal/internal/kvstore"
)

func TestWriteStateFile_ReadableByJSONStore(t *testing.T) {
	path := WriteStateFile(t, t.TempDir(), "state.json", map[string]any{
		"tutorial.current_step": 3,
		"onboarding.completed":  true,
	})

	store, err := kvstore.OpenJSONFile(path)
	if err != nil {
		t.Fatalf("OpenJSONFile: %v", err)
	}
	defer store.Close()

	AssertStoredInt(t, store, "tutorial.current_step", 3)
	AssertStoredBool(t, store, "onboarding.completed", true)
	AssertStoredBool(t, store, "missing", false)
}

func TestAssertJSONEqual(t *testing.T) {
	type pair struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	AssertJSONEqual(t, map[string]any{"a": 1, "b": "x"}, pair{A: 1, B: "x"})
}
