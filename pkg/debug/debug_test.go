package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLog_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetEnabled(false)

	Log("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}

func TestLog_EnabledWritesWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	SetEnabled(true)
	defer SetEnabled(false)

	Log("step %s", "foods")
	LogTiming("render", 3*time.Millisecond)

	got := buf.String()
	if !strings.Contains(got, "[KCAL_DEBUG] ") {
		t.Errorf("expected prefix in %q", got)
	}
	if !strings.Contains(got, "step foods") {
		t.Errorf("expected message in %q", got)
	}
	if !strings.Contains(got, "render took 3ms") {
		t.Errorf("expected timing line in %q", got)
	}
	if !Enabled() {
		t.Error("Enabled() should report true")
	}
}
