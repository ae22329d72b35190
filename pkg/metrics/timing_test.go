package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vanderheijden86/kcal/pkg/debug"
)

func TestTimingMetric_Record(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)
	m.Record(6 * time.Millisecond)

	s := m.Stats()
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 6 || s.AvgMs != 4 {
		t.Errorf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 || m.Stats().MaxMs != 0 {
		t.Errorf("expected empty metric after Reset, got %+v", m.Stats())
	}
}

func TestTimingMetric_Concurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Record(time.Duration(n) * time.Microsecond)
		}(i)
	}
	wg.Wait()

	s := m.Stats()
	if s.Count != 50 {
		t.Errorf("Count = %d, want 50", s.Count)
	}
	if s.MinMs != 0.001 || s.MaxMs != 0.05 {
		t.Errorf("min/max = %v/%v", s.MinMs, s.MaxMs)
	}
}

func TestDisabledSkipsRecording(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Millisecond)
	if m.Count() != 0 {
		t.Errorf("expected no samples while disabled, got %d", m.Count())
	}
}

func TestAllTimingStats_OnlyWithData(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	Timer(StoreWrite)()
	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "store_write" {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestTimer_LogsWhenDebugEnabled(t *testing.T) {
	SetEnabled(true)
	var buf bytes.Buffer
	debug.SetEnabled(true)
	debug.SetOutput(&buf)
	defer func() {
		debug.SetOutput(nil)
		debug.SetEnabled(false)
	}()

	m := newTimingMetric("logged_op")
	Timer(m)()
	if !strings.Contains(buf.String(), "logged_op took") {
		t.Errorf("expected timing line in debug output, got %q", buf.String())
	}
}
