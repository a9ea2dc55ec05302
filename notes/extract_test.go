package notes

import (
	"path/filepath"
	"testing"
)

func TestWriteSMFThenExtractRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.mid")
	want := []Note{
		{Semitone: 60, Start: 0.0, Duration: 0.5, Velocity: 90},
		{Semitone: 64, Start: 0.5, Duration: 0.5, Velocity: 90},
		{Semitone: 67, Start: 1.0, Duration: 1.0, Velocity: 90},
	}

	if err := WriteSMF(path, want, 480, 120); err != nil {
		t.Fatalf("WriteSMF failed: %v", err)
	}

	got, meta, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if meta.TicksPerQuarter != 480 {
		t.Errorf("TicksPerQuarter = %d, want 480", meta.TicksPerQuarter)
	}
	if len(got) != len(want) {
		t.Fatalf("Extract returned %d notes, want %d", len(got), len(want))
	}
	for i, n := range got {
		if n.Semitone != want[i].Semitone {
			t.Errorf("note %d semitone = %d, want %d", i, n.Semitone, want[i].Semitone)
		}
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, _, err := Extract(filepath.Join(t.TempDir(), "does-not-exist.mid")); err == nil {
		t.Error("Extract should fail on a missing file")
	}
}
