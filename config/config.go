// Package config loads the planner's tunable values from a YAML file. It
// only ever returns a value the caller passes on explicitly — nothing
// here is held in package-level state.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"pianoarm/errs"
	"pianoarm/fingering"
	"pianoarm/preprocess"
)

// Planner bundles everything a planning run needs, loadable from a single
// YAML document.
type Planner struct {
	MovePenalty        float64 `yaml:"move_penalty"`
	DistancePenalty    float64 `yaml:"distance_penalty"`
	ShortNoteThreshold float64 `yaml:"short_note_threshold"`

	LiftLowNotes      bool `yaml:"lift_low_notes"`
	FilterLowNotes    bool `yaml:"filter_low_notes"`
	FilterThreshold   int  `yaml:"filter_threshold"`
	TransposeUpOctave bool `yaml:"transpose_right_octave"`

	OutputDir string `yaml:"output_dir"`
}

// Load reads and parses a planner config file, applying the same
// defaults Params/Options use when a YAML document omits a field.
func Load(filename string) (Planner, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Planner{}, errs.Wrap(errs.IoError, "reading config", err)
	}

	var p Planner
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Planner{}, errs.Wrap(errs.ParseError, "parsing config", err)
	}

	defaults := fingering.DefaultParams()
	if p.MovePenalty == 0 {
		p.MovePenalty = defaults.MovePenalty
	}
	if p.DistancePenalty == 0 {
		p.DistancePenalty = defaults.DistancePenalty
	}
	if p.ShortNoteThreshold == 0 {
		p.ShortNoteThreshold = defaults.ShortNoteThreshold
	}
	if p.OutputDir == "" {
		p.OutputDir = "."
	}
	return p, nil
}

// Params extracts the fingering.Params portion of a loaded config.
func (p Planner) Params() fingering.Params {
	return fingering.Params{
		MovePenalty:        p.MovePenalty,
		DistancePenalty:    p.DistancePenalty,
		ShortNoteThreshold: p.ShortNoteThreshold,
	}
}

// LeftOptions extracts the preprocess.Options a left-hand run should use.
func (p Planner) LeftOptions() preprocess.Options {
	return preprocess.Options{
		LiftLowNotes:    p.LiftLowNotes,
		FilterLowNotes:  p.FilterLowNotes,
		FilterThreshold: p.FilterThreshold,
	}
}

// RightOptions extracts the preprocess.Options a right-hand run should use.
func (p Planner) RightOptions() preprocess.Options {
	return preprocess.Options{
		TransposeUpOctave: p.TransposeUpOctave,
	}
}
