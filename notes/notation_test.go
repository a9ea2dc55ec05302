package notes

import "testing"

func TestNameParseSemitoneRoundTrip(t *testing.T) {
	for s := MinSemitone; s <= MaxSemitone; s++ {
		name := Name(s)
		got, ok := ParseSemitone(name)
		if !ok {
			t.Fatalf("ParseSemitone(%q) failed for semitone %d", name, s)
		}
		if got != s {
			t.Errorf("round trip semitone %d -> %q -> %d, want %d", s, name, got, s)
		}
	}
}

func TestNameKnownValues(t *testing.T) {
	cases := []struct {
		semitone int
		want     string
	}{
		{21, "A0"},
		{60, "C4"},
		{61, "C#4"},
		{108, "C8"},
	}
	for _, c := range cases {
		if got := Name(c.semitone); got != c.want {
			t.Errorf("Name(%d) = %q, want %q", c.semitone, got, c.want)
		}
	}
}

func TestNormalizeFlatsAndEdgeCases(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Db4", "C#4"},
		{"Eb4", "D#4"},
		{"Gb4", "F#4"},
		{"Ab4", "G#4"},
		{"Bb4", "A#4"},
		{"B#3", "C4"},
		{"Cb4", "B3"},
		{"C4", "C4"},
		{"c#4", "C#4"},
	}
	for _, c := range cases {
		got, ok := Normalize(c.in)
		if !ok {
			t.Fatalf("Normalize(%q) failed", c.in)
		}
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWhiteKeyIndexKnownValues(t *testing.T) {
	cases := []struct {
		semitone int
		want     int
	}{
		{21, 1},  // A0
		{23, 2},  // B0
		{24, 3},  // C1
		{26, 4},  // D1
		{33, 8},  // A1
		{35, 9},  // B1
		{31, 7},  // G1
		{36, 10}, // C2
		{60, 24}, // C4
	}
	for _, c := range cases {
		if got := WhiteKeyIndex(c.semitone); got != c.want {
			t.Errorf("WhiteKeyIndex(%d) = %d, want %d", c.semitone, got, c.want)
		}
	}
}

func TestWhiteKeyIndexMonotonic(t *testing.T) {
	prev := WhiteKeyIndex(MinSemitone)
	for s := MinSemitone + 1; s <= MaxSemitone; s++ {
		cur := WhiteKeyIndex(s)
		if cur < prev {
			t.Fatalf("WhiteKeyIndex not monotonic at semitone %d: %d < %d", s, cur, prev)
		}
		prev = cur
	}
}

func TestIsBlackKeyAndRegion(t *testing.T) {
	cases := []struct {
		semitone  int
		wantBlack bool
		wantRegion int
	}{
		{60, false, 0}, // C4
		{61, true, 1},  // C#4
		{63, true, 1},  // D#4
		{66, true, 2},  // F#4
		{68, true, 2},  // G#4
		{70, true, 2},  // A#4
	}
	for _, c := range cases {
		if got := IsBlackKey(c.semitone); got != c.wantBlack {
			t.Errorf("IsBlackKey(%d) = %v, want %v", c.semitone, got, c.wantBlack)
		}
		if got := Region(c.semitone); got != c.wantRegion {
			t.Errorf("Region(%d) = %d, want %d", c.semitone, got, c.wantRegion)
		}
	}
}

func TestSolfege(t *testing.T) {
	if got := Solfege(60); got != "do" {
		t.Errorf("Solfege(60) = %q, want %q", got, "do")
	}
	if got := Solfege(61); got != "do#" {
		t.Errorf("Solfege(61) = %q, want %q", got, "do#")
	}
}

func TestParseSemitoneInvalid(t *testing.T) {
	for _, in := range []string{"", "H4", "C", "#4"} {
		if _, ok := ParseSemitone(in); ok {
			t.Errorf("ParseSemitone(%q) should fail", in)
		}
	}
}
