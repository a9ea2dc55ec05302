// Package preprocess applies the enharmonic normalisation, octave
// adjustment, and hand-split transforms that run between extraction and
// fingering planning. Every function takes its configuration as an
// explicit argument; there is no package-level state.
package preprocess

import (
	"pianoarm/errs"
	"pianoarm/notes"
)

// Options bundles the optional adjustment steps a caller can request
// between extraction and planning.
type Options struct {
	LiftLowNotes       bool
	FilterLowNotes     bool
	FilterThreshold    int // semitone, default 47
	TransposeUpOctave  bool
	SplitPoint         int // semitone, used by SplitHands
}

// Validate enforces the one precondition spec.md requires: lifting and
// filtering low notes are mutually exclusive strategies for the same
// problem, so requesting both is a caller error, not a silent pick.
func (o Options) Validate() error {
	if o.LiftLowNotes && o.FilterLowNotes {
		return errs.New(errs.PreconditionError, "LiftLowNotes and FilterLowNotes cannot both be requested")
	}
	return nil
}

const defaultFilterThreshold = 47

// Normalize rewrites a note's display name to its canonical sharp
// spelling, leaving Semitone untouched since notes.Extract already
// produced it from the canonical representation.
func Normalize(n notes.Note) notes.Note {
	if name, ok := notes.Normalize(n.Name); ok {
		n.Name = name
	} else {
		n.Name = notes.Name(n.Semitone)
	}
	return n
}

// liftedRangeLo and liftedRangeHi bound the octave-lift target window,
// [48,59] (C3..B3), matching the original left-hand low-note rescue.
const (
	liftedRangeLo = 48
	liftedRangeHi = 59
	maxLiftOctaves = 4
)

// LiftLowNotes raises any note below liftedRangeLo by whole octaves until
// it lands in [48,59], giving up after maxLiftOctaves attempts and
// clamping to whatever octave was last tried (spec.md step 2).
func LiftLowNotes(ns []notes.Note) []notes.Note {
	out := make([]notes.Note, len(ns))
	for i, n := range ns {
		s := n.Semitone
		if s >= liftedRangeLo {
			out[i] = n
			continue
		}
		for attempt := 0; attempt < maxLiftOctaves && s < liftedRangeLo; attempt++ {
			s += 12
		}
		n.Semitone = s
		n.Name = notes.Name(s)
		out[i] = n
	}
	return out
}

// FilterLowNotes drops every note at or below threshold (spec.md step 3).
// threshold <= 0 uses the default of 47 (B2).
func FilterLowNotes(ns []notes.Note, threshold int) []notes.Note {
	if threshold <= 0 {
		threshold = defaultFilterThreshold
	}
	out := ns[:0:0]
	for _, n := range ns {
		if n.Semitone > threshold {
			out = append(out, n)
		}
	}
	return out
}

// TransposeUpOctave raises every note by one octave, clamped at C8
// (semitone 108) so the right hand's upper edge is never exceeded
// (spec.md step 4).
func TransposeUpOctave(ns []notes.Note) []notes.Note {
	out := make([]notes.Note, len(ns))
	for i, n := range ns {
		s := n.Semitone + 12
		if s > notes.MaxSemitone {
			s = notes.MaxSemitone
		}
		n.Semitone = s
		n.Name = notes.Name(s)
		out[i] = n
	}
	return out
}

// SplitHands partitions notes by pitch around splitPoint: semitones below
// it go to the left hand, at-or-above go to the right hand (spec.md step
// 5, pitch-based split).
func SplitHands(ns []notes.Note, splitPoint int) (left, right []notes.Note) {
	for _, n := range ns {
		if n.Semitone < splitPoint {
			left = append(left, n)
		} else {
			right = append(right, n)
		}
	}
	return left, right
}

// SplitByTag partitions notes using an existing Hand tag rather than a
// pitch threshold, the path used when a song was captured as separate
// left/right MIDI files (spec.md step 5, tag-based split).
func SplitByTag(ns []notes.Note) (left, right []notes.Note) {
	for _, n := range ns {
		switch n.Hand {
		case notes.HandLeft:
			left = append(left, n)
		case notes.HandRight:
			right = append(right, n)
		}
	}
	return left, right
}
