package notes

import "fmt"

// letterSemitone maps a natural letter name to its semitone offset within an
// octave starting at C (C=0, D=2, E=4, F=5, G=7, A=9, B=11).
var letterSemitone = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// whiteLetterOrder positions each natural letter among the 7 white keys of
// an octave, C first.
var whiteLetterOrder = map[byte]int{'C': 0, 'D': 1, 'E': 2, 'F': 3, 'G': 4, 'A': 5, 'B': 6}

var semitoneLetters = [12]struct {
	letter     byte
	accidental bool
}{
	{'C', false}, {'C', true}, {'D', false}, {'D', true}, {'E', false},
	{'F', false}, {'F', true}, {'G', false}, {'G', true}, {'A', false},
	{'A', true}, {'B', false},
}

// MinSemitone and MaxSemitone bound the 88-key range, A0..C8.
const (
	MinSemitone = 21
	MaxSemitone = 108
)

// Name renders a semitone (21..108) as a note name with sharps, e.g. "C#4".
// Octave numbering follows scientific pitch notation where C4 = middle C =
// semitone 60.
func Name(semitone int) string {
	entry := semitoneLetters[((semitone%12)+12)%12]
	octave := semitone/12 - 1
	if entry.accidental {
		return fmt.Sprintf("%c#%d", entry.letter, octave)
	}
	return fmt.Sprintf("%c%d", entry.letter, octave)
}

// Solfege renders a semitone's pitch class as a movable-do solfège syllable,
// e.g. "do", "re#". Ported from the original extractor's get_solfege_name.
func Solfege(semitone int) string {
	names := [12]string{"do", "do#", "re", "re#", "mi", "fa", "fa#", "sol", "sol#", "la", "la#", "si"}
	return names[((semitone%12)+12)%12]
}

// ParseSemitone is the inverse of Name: it accepts a note name such as "C#4",
// "Db3", "B#4" or "Cb5" and returns its semitone number. Enharmonic and
// flat spellings are normalised first (see Normalize). Returns false if the
// string cannot be parsed as a note name.
func ParseSemitone(name string) (int, bool) {
	norm, ok := Normalize(name)
	if !ok {
		return 0, false
	}
	letter := norm[0]
	rest := norm[1:]
	sharp := false
	if len(rest) > 0 && rest[0] == '#' {
		sharp = true
		rest = rest[1:]
	}
	octave, ok := parseInt(rest)
	if !ok {
		return 0, false
	}
	base, ok := letterSemitone[letter]
	if !ok {
		return 0, false
	}
	semitone := (octave+1)*12 + base
	if sharp {
		semitone++
	}
	return semitone, true
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(s) {
		return 0, false
	}
	n := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// Normalize rewrites a note-name string so every accidental is expressed as
// a sharp: flats become the enharmonic sharp spelling (Db->C#), and the
// edge cases B#->C and Cb->B are rewritten into the neighbouring letter,
// exactly as spec.md §4.2 step 1 describes. The octave suffix is left
// untouched other than the B#/Cb octave-boundary adjustment those two cases
// require.
func Normalize(name string) (string, bool) {
	if len(name) < 2 {
		return "", false
	}
	letter := upper(name[0])
	i := 1
	accidental := byte(0)
	if name[i] == '#' {
		accidental = '#'
		i++
	} else if name[i] == 'b' {
		accidental = 'b'
		i++
	}
	octaveStr := name[i:]
	octave, ok := parseInt(octaveStr)
	if !ok {
		return "", false
	}

	switch {
	case accidental == '#' && letter == 'B':
		letter = 'C'
		accidental = 0
		octave++
	case accidental == '#' && letter == 'E':
		letter = 'F'
		accidental = 0
	case accidental == 'b' && letter == 'C':
		letter = 'B'
		accidental = 0
		octave--
	case accidental == 'b' && letter == 'F':
		letter = 'E'
		accidental = 0
	case accidental == 'b':
		// Db->C#, Eb->D#, Gb->F#, Ab->G#, Bb->A#: step down one letter,
		// then re-sharp.
		down := map[byte]byte{'D': 'C', 'E': 'D', 'G': 'F', 'A': 'G', 'B': 'A'}
		if ltr, ok := down[letter]; ok {
			letter = ltr
			accidental = '#'
		}
	}

	if accidental == '#' {
		return fmt.Sprintf("%c#%d", letter, octave), true
	}
	return fmt.Sprintf("%c%d", letter, octave), true
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// WhiteKeyIndex converts a semitone to its white-key index (1..52), the
// index of the adjacent-or-equal white key counting up from A0=1. Black
// keys share the index of the white key immediately below them, matching
// spec.md §3's definition and the original's note_to_white_key_index.
func WhiteKeyIndex(semitone int) int {
	entry := semitoneLetters[((semitone%12)+12)%12]
	octave := semitone/12 - 1

	letter := entry.letter
	// Step down to the natural below a black key (C#->C, D#->D, F#->F,
	// G#->G, A#->A) for the purposes of white-key counting.
	pos := whiteLetterOrder[letter]

	// A0=1, B0=2, C1=3, D1=4, ... each octave from C contributes 7 white
	// keys; octave 0 (A0/B0) is the two-note pickup before C1.
	if octave == 0 {
		// A0, A#0, B0
		if letter == 'A' {
			return 1
		}
		return 2 // B0
	}
	return (octave-1)*7 + 3 + pos
}

// Letter returns the natural letter name (C, D, E, F, G, A or B) a
// semitone's pitch class is spelled with under the sharp convention Name
// uses — e.g. both C#4 and C4 return 'C'.
func Letter(semitone int) byte {
	return semitoneLetters[((semitone%12)+12)%12].letter
}

// Octave returns a semitone's scientific-pitch-notation octave number,
// e.g. Octave(60) == 4 (middle C).
func Octave(semitone int) int {
	return semitone/12 - 1
}

// IsBlackKey reports whether a semitone falls on a black key.
func IsBlackKey(semitone int) bool {
	return semitoneLetters[((semitone%12)+12)%12].accidental
}

// Region classifies a black key's fingering region: 1 for C#/D#, 2 for
// F#/G#/A#, 0 for white keys. See spec.md GLOSSARY.
func Region(semitone int) int {
	entry := semitoneLetters[((semitone%12)+12)%12]
	if !entry.accidental {
		return 0
	}
	switch entry.letter {
	case 'C', 'D':
		return 1
	case 'F', 'G', 'A':
		return 2
	}
	return 0
}
