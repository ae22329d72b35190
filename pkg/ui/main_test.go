package ui

import (
	"os"
	"testing"

	"github.com/vanderheijden86/kcal/pkg/debug"
)

func TestMain(m *testing.M) {
	// Keep KCAL_DEBUG from a developer's shell out of test output.
	debug.SetEnabled(false)
	os.Exit(m.Run())
}
