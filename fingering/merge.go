package fingering

import (
	"sort"

	"pianoarm/notes"
)

// MergeHands combines two already-planned single-hand reports into one
// time-sorted trajectory, tagging each note's Hand so a consumer (a
// chat response, a replay, a preview) can render both hands together. It is
// pure post-processing: neither report's planned positions are touched.
func MergeHands(left, right Report) []notes.PlannedNote {
	merged := make([]notes.PlannedNote, 0, len(left.Trajectory)+len(right.Trajectory))
	merged = append(merged, left.Trajectory...)
	merged = append(merged, right.Trajectory...)
	for i := range merged {
		merged[i].Note.Hand = merged[i].Hand
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Note.Start < merged[j].Note.Start
	})
	return merged
}
