package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	Reset()
	for range 3 {
		stop := Track("test.stage")
		time.Sleep(time.Millisecond)
		stop()
	}

	if got := Calls("test.stage"); got != 3 {
		t.Fatalf("calls: got %d, want 3", got)
	}
	if d := Snapshot()["test.stage"]; d < 3*time.Millisecond {
		t.Fatalf("total: got %v, want >= 3ms", d)
	}
}

func TestTopNOrdersByDuration(t *testing.T) {
	Reset()
	mu.Lock()
	totals["fast"] = stat{total: time.Millisecond, calls: 1}
	totals["slow"] = stat{total: 5 * time.Millisecond, calls: 1}
	mu.Unlock()

	got := TopN(5)
	if !strings.HasPrefix(got, "slow:5.0ms") || !strings.Contains(got, "fast:1.0ms") {
		t.Fatalf("unexpected TopN output: %q", got)
	}
	if TopN(1) != "slow:5.0ms" {
		t.Fatalf("TopN(1) = %q", TopN(1))
	}
	Reset()
}
