// Package pipeline sequences the offline stages (read, normalise, plan,
// merge both hands) for one song; handing the plan to capture is left to
// the caller. It is the only "agent" surface
// this module owns: a plain synchronous/concurrent function, not a graph
// executor.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"pianoarm/errs"
	"pianoarm/fingering"
	"pianoarm/notes"
	"pianoarm/preprocess"
)

// Input names the song to plan and the preprocessing options to apply to
// each hand before planning.
type Input struct {
	SongName   string
	BaseDir    string
	LeftOpts   preprocess.Options
	RightOpts  preprocess.Options
	PlanParams fingering.Params
}

// Output is what one pipeline run produces: a per-hand report plus the
// merged two-hand timeline used by the chat response and summary writer.
type Output struct {
	SongName string
	Left     fingering.Report
	Right    fingering.Report
	Merged   []notes.PlannedNote
}

// Run finds <base>/<song>/*left*.mid and *right*.mid, extracts and
// preprocesses each, then plans both hands concurrently — spec.md §5:
// "left and right planners are independent and may be run in parallel."
func Run(ctx context.Context, in Input) (Output, error) {
	if err := in.LeftOpts.Validate(); err != nil {
		return Output{}, err
	}
	if err := in.RightOpts.Validate(); err != nil {
		return Output{}, err
	}

	songDir := filepath.Join(in.BaseDir, in.SongName)
	leftPath, err := findHandFile(songDir, "left")
	if err != nil {
		return Output{}, err
	}
	rightPath, err := findHandFile(songDir, "right")
	if err != nil {
		return Output{}, err
	}

	var (
		wg                sync.WaitGroup
		leftReport, rightReport fingering.Report
		leftErr, rightErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		leftReport, leftErr = planHand(leftPath, notes.HandLeft, in.LeftOpts, in.PlanParams)
	}()
	go func() {
		defer wg.Done()
		rightReport, rightErr = planHand(rightPath, notes.HandRight, in.RightOpts, in.PlanParams)
	}()
	wg.Wait()

	if leftErr != nil {
		return Output{}, leftErr
	}
	if rightErr != nil {
		return Output{}, rightErr
	}

	select {
	case <-ctx.Done():
		return Output{}, ctx.Err()
	default:
	}

	return Output{
		SongName: in.SongName,
		Left:     leftReport,
		Right:    rightReport,
		Merged:   fingering.MergeHands(leftReport, rightReport),
	}, nil
}

func planHand(path string, hand notes.Hand, opts preprocess.Options, params fingering.Params) (fingering.Report, error) {
	extracted, _, err := notes.Extract(path)
	if err != nil {
		return fingering.Report{}, err
	}

	processed := make([]notes.Note, len(extracted))
	for i, n := range extracted {
		processed[i] = preprocess.Normalize(n)
	}
	switch {
	case opts.LiftLowNotes:
		processed = preprocess.LiftLowNotes(processed)
	case opts.FilterLowNotes:
		processed = preprocess.FilterLowNotes(processed, opts.FilterThreshold)
	}
	if opts.TransposeUpOctave {
		processed = preprocess.TransposeUpOctave(processed)
	}

	return fingering.Plan(processed, hand, params), nil
}

// findHandFile matches spec.md §6's environment contract: *left*.mid /
// *right*.mid lookup under <base>/<song>/, with a missing file reported
// as a user error.
func findHandFile(dir, hand string) (string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*"+hand+"*.mid"))
	if err != nil {
		return "", errs.Wrap(errs.IoError, fmt.Sprintf("searching %s", dir), err)
	}
	for _, e := range entries {
		if strings.Contains(strings.ToLower(filepath.Base(e)), hand) {
			return e, nil
		}
	}
	return "", errs.New(errs.IoError, fmt.Sprintf("no *%s*.mid file found under %s", hand, dir))
}
