package prof

import (
	"testing"
	"time"
)

func TestTrackRecordsDuration(t *testing.T) {
	SnapshotAndReset() // clear anything left by other tests

	start := time.Now()
	time.Sleep(time.Millisecond)
	Track(start, "phase-a")

	phases := SnapshotAndReset()
	if len(phases) != 1 {
		t.Fatalf("got %d phases, want 1", len(phases))
	}
	if phases[0].Label != "phase-a" {
		t.Fatalf("Label = %q, want %q", phases[0].Label, "phase-a")
	}
	if phases[0].Dur <= 0 {
		t.Fatalf("Dur = %v, want > 0", phases[0].Dur)
	}
}

func TestSnapshotAndResetClearsLog(t *testing.T) {
	SnapshotAndReset()
	Track(time.Now(), "phase-b")
	SnapshotAndReset()

	if phases := SnapshotAndReset(); len(phases) != 0 {
		t.Fatalf("expected empty log after reset, got %d phases", len(phases))
	}
}

func TestTrackAccumulatesMultiplePhases(t *testing.T) {
	SnapshotAndReset()
	Track(time.Now(), "a")
	Track(time.Now(), "b")

	phases := SnapshotAndReset()
	if len(phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(phases))
	}
}
