package preprocess

import (
	"testing"

	"pianoarm/notes"
)

func TestOptionsValidateMutualExclusion(t *testing.T) {
	o := Options{LiftLowNotes: true, FilterLowNotes: true}
	if err := o.Validate(); err == nil {
		t.Error("Validate should reject LiftLowNotes and FilterLowNotes together")
	}
	o = Options{LiftLowNotes: true}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate rejected a single option: %v", err)
	}
}

func TestLiftLowNotes(t *testing.T) {
	ns := []notes.Note{{Semitone: 36}, {Semitone: 50}}
	out := LiftLowNotes(ns)
	if out[0].Semitone < liftedRangeLo || out[0].Semitone > liftedRangeHi {
		t.Errorf("lifted semitone %d not in [%d,%d]", out[0].Semitone, liftedRangeLo, liftedRangeHi)
	}
	if out[1].Semitone != 50 {
		t.Errorf("note already in range should be untouched, got %d", out[1].Semitone)
	}
}

func TestLiftLowNotesClampsAfterMaxAttempts(t *testing.T) {
	ns := []notes.Note{{Semitone: 0}}
	out := LiftLowNotes(ns)
	want := 0 + maxLiftOctaves*12
	if out[0].Semitone != want {
		t.Errorf("clamped semitone = %d, want %d", out[0].Semitone, want)
	}
}

func TestFilterLowNotes(t *testing.T) {
	ns := []notes.Note{{Semitone: 30}, {Semitone: 47}, {Semitone: 48}, {Semitone: 60}}
	out := FilterLowNotes(ns, 0)
	if len(out) != 2 {
		t.Fatalf("expected 2 notes above default threshold, got %d", len(out))
	}
	for _, n := range out {
		if n.Semitone <= defaultFilterThreshold {
			t.Errorf("note %d should have been filtered", n.Semitone)
		}
	}
}

func TestTransposeUpOctaveClampsAtC8(t *testing.T) {
	ns := []notes.Note{{Semitone: 100}, {Semitone: 60}}
	out := TransposeUpOctave(ns)
	if out[0].Semitone != notes.MaxSemitone {
		t.Errorf("transposed semitone = %d, want clamped to %d", out[0].Semitone, notes.MaxSemitone)
	}
	if out[1].Semitone != 72 {
		t.Errorf("transposed semitone = %d, want 72", out[1].Semitone)
	}
}

func TestSplitHandsByPitch(t *testing.T) {
	ns := []notes.Note{{Semitone: 40}, {Semitone: 59}, {Semitone: 60}, {Semitone: 80}}
	left, right := SplitHands(ns, 60)
	if len(left) != 2 || len(right) != 2 {
		t.Fatalf("split = %d left, %d right, want 2/2", len(left), len(right))
	}
}

func TestSplitByTag(t *testing.T) {
	ns := []notes.Note{
		{Semitone: 40, Hand: notes.HandLeft},
		{Semitone: 70, Hand: notes.HandRight},
		{Semitone: 50, Hand: notes.HandLeft},
	}
	left, right := SplitByTag(ns)
	if len(left) != 2 || len(right) != 1 {
		t.Fatalf("split by tag = %d left, %d right, want 2/1", len(left), len(right))
	}
}

func TestNormalizeRewritesFlat(t *testing.T) {
	n := notes.Note{Semitone: 61, Name: "Db4"}
	got := Normalize(n)
	if got.Name != "C#4" {
		t.Errorf("Normalize name = %q, want %q", got.Name, "C#4")
	}
}
