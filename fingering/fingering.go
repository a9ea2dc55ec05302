// Package fingering plans the arm position and finger for every note in a
// single hand's part: a left-to-right dynamic program minimises total
// travel distance and move count subject to a short-note guard, then a
// table-driven pass assigns fingers. Ported from the original
// find_arm_positions_optimized, restructured around notes.Note/Hand as
// the canonical types instead of parsed strings.
package fingering

import (
	"math"

	"pianoarm/notes"
)

// Params tunes the cost model driving the DP.
type Params struct {
	MovePenalty        float64
	DistancePenalty    float64
	ShortNoteThreshold float64
}

// DefaultParams matches the original planner's defaults.
func DefaultParams() Params {
	return Params{MovePenalty: 5.0, DistancePenalty: 50.0, ShortNoteThreshold: 0.25}
}

// FilteredNote records a note that never reached the planner because it
// fell outside the requested hand's hardware range.
type FilteredNote struct {
	Note     notes.Note
	Semitone int
	Reason   string
}

// Report is the full result of a single Plan call.
type Report struct {
	Trajectory         []notes.PlannedNote
	TotalMoveDistance  int
	MoveCount          int
	MaxSingleMove      int
	PinkyNormalCount   int
	PinkyExtendedCount int
	Infeasible         bool
	Filtered           []FilteredNote
	OriginalNotesCount int
}

// Plan computes arm positions and finger assignments for notes played by
// hand. It never returns an error: out-of-range notes are filtered into
// Report.Filtered, and a fully constrained (all-short-notes) sequence is
// resolved with Report.Infeasible set rather than failing.
func Plan(input []notes.Note, hand notes.Hand, p Params) Report {
	report := Report{OriginalNotesCount: len(input)}
	if len(input) == 0 {
		return report
	}

	var playable []notes.Note
	var whiteKeyIdx []int
	for _, n := range input {
		wki := notes.WhiteKeyIndex(n.Semitone)
		if !inHandRange(hand, wki) {
			report.Filtered = append(report.Filtered, FilteredNote{
				Note: n, Semitone: n.Semitone, Reason: "out of hand range",
			})
			continue
		}
		playable = append(playable, n)
		whiteKeyIdx = append(whiteKeyIdx, wki)
	}
	if len(playable) == 0 {
		return report
	}

	windows := make([][2]int, len(playable))
	for i, wki := range whiteKeyIdx {
		lo, hi := windowFor(hand, wki)
		windows[i] = [2]int{lo, hi}
	}

	positions, moveCount, feasible := runDP(playable, windows, p, true)
	if !feasible {
		positions, moveCount, _ = runDP(playable, windows, p, false)
		report.Infeasible = true
	}

	report.Trajectory = make([]notes.PlannedNote, len(playable))
	var totalDistance, maxSingle int
	for i, n := range playable {
		pn := assignFinger(n, whiteKeyIdx[i], positions[i], hand)
		report.Trajectory[i] = pn
		if pn.PinkyKeyType == notes.PinkyExtended {
			report.PinkyExtendedCount++
		} else if pn.Finger == 5 {
			report.PinkyNormalCount++
		}
		if i > 0 {
			d := abs(positions[i] - positions[i-1])
			totalDistance += d
			if d > maxSingle {
				maxSingle = d
			}
		}
	}
	report.TotalMoveDistance = totalDistance
	report.MoveCount = moveCount
	report.MaxSingleMove = maxSingle
	return report
}

// runDP fills the DP table over the admissible window for each note and
// backtracks the optimal arm-position sequence. When guardShortNotes is
// true, a transition that would require a move right after a note whose
// duration is at or below Params.ShortNoteThreshold is forbidden
// (cost +Inf). If every path to the last note is +Inf under the guard,
// the caller re-runs with guardShortNotes=false to get a best-effort
// path and marks the result Infeasible.
func runDP(ns []notes.Note, windows [][2]int, p Params, guardShortNotes bool) (positions []int, moveCount int, feasible bool) {
	n := len(ns)
	dp := make([][]float64, n)
	prevPos := make([][]int, n)
	moves := make([][]int, n)
	for i := range dp {
		dp[i] = make([]float64, maxArmPosition+1)
		prevPos[i] = make([]int, maxArmPosition+1)
		moves[i] = make([]int, maxArmPosition+1)
		for pos := range dp[i] {
			dp[i][pos] = math.Inf(1)
			prevPos[i][pos] = -1
		}
	}

	lo0, hi0 := windows[0][0], windows[0][1]
	for pos := lo0; pos <= hi0; pos++ {
		dp[0][pos] = 0
	}

	for i := 1; i < n; i++ {
		lo, hi := windows[i][0], windows[i][1]
		prevLo, prevHi := windows[i-1][0], windows[i-1][1]
		prevDuration := ns[i-1].Duration

		for cur := lo; cur <= hi; cur++ {
			bestCost := math.Inf(1)
			bestPrev := -1
			bestMoves := 0

			for prev := prevLo; prev <= prevHi; prev++ {
				if math.IsInf(dp[i-1][prev], 1) {
					continue
				}
				distance := abs(cur - prev)
				if distance > 0 && guardShortNotes && prevDuration <= p.ShortNoteThreshold {
					continue
				}

				moveInc := 0
				if cur != prev {
					moveInc = 1
				}
				totalMoves := moves[i-1][prev] + moveInc

				singleMovePenalty := 0.0
				if distance > 0 {
					singleMovePenalty = p.DistancePenalty * float64(distance*distance)
				}
				cost := dp[i-1][prev] + float64(distance) + singleMovePenalty + p.MovePenalty*float64(moveInc)

				if cost < bestCost ||
					(cost == bestCost && totalMoves < bestMoves) ||
					(cost == bestCost && totalMoves == bestMoves && prev < bestPrev) {
					bestCost = cost
					bestPrev = prev
					bestMoves = totalMoves
				}
			}

			dp[i][cur] = bestCost
			prevPos[i][cur] = bestPrev
			moves[i][cur] = bestMoves
		}
	}

	lastLo, lastHi := windows[n-1][0], windows[n-1][1]
	bestCost := math.Inf(1)
	bestPos := -1
	bestMoves := 0
	for pos := lastLo; pos <= lastHi; pos++ {
		c := dp[n-1][pos]
		if c < bestCost || (c == bestCost && moves[n-1][pos] < bestMoves) || (c == bestCost && moves[n-1][pos] == bestMoves && pos < bestPos) {
			bestCost = c
			bestPos = pos
			bestMoves = moves[n-1][pos]
		}
	}
	if math.IsInf(bestCost, 1) {
		return nil, 0, false
	}

	positions = make([]int, n)
	positions[n-1] = bestPos
	for i := n - 2; i >= 0; i-- {
		positions[i] = prevPos[i+1][positions[i+1]]
	}
	return positions, bestMoves, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// assignFinger computes the PlannedNote for a single note given its
// resolved arm position, following the black-key-rule-then-offset-table
// logic of the original's finger_assignments pass.
func assignFinger(n notes.Note, whiteKeyIdx, armPos int, hand notes.Hand) notes.PlannedNote {
	pn := notes.PlannedNote{
		Note:          n,
		WhiteKeyIndex: whiteKeyIdx,
		ArmPosition:   armPos,
		Hand:          hand,
		IsBlack:       notes.IsBlackKey(n.Semitone),
		Region:        notes.Region(n.Semitone),
	}

	offset := whiteKeyIdx - armPos
	pinky := notes.PinkyNormal

	if pn.IsBlack {
		letter := notes.Letter(n.Semitone)
		finger, ok := blackKeyFinger[hand][letter]
		if hand == notes.HandLeft && letter == 'A' && notes.Octave(n.Semitone) == 0 {
			finger, ok = blackKeyFingerA0, true
		}
		if !ok {
			finger = fallbackOffsetFinger(hand, offset)
		}
		if finger == 5 && isExtendedPinkyOffset(hand, offset) {
			pinky = notes.PinkyExtended
		}
		pn.Finger = finger
	} else {
		finger, ok := whiteKeyFinger[hand][offset]
		if !ok {
			finger = fallbackOffsetFinger(hand, offset)
		}
		if isExtendedPinkyOffset(hand, offset) {
			pinky = notes.PinkyExtended
		}
		pn.Finger = finger
	}

	pn.PinkyKeyType = pinky
	return pn
}

// fallbackOffsetFinger is reached only when a table lookup misses
// (an offset outside the hand's normal window, which windowFor should
// already prevent): it mirrors the original's defensive default-logic
// branch rather than panicking.
func fallbackOffsetFinger(hand notes.Hand, offset int) int {
	if hand == notes.HandRight {
		switch offset {
		case 0:
			return 5
		case 1:
			return 5
		case 2:
			return 4
		case 3:
			return 3
		case 4:
			return 2
		case 5:
			return 1
		default:
			return 5
		}
	}
	switch offset {
	case 0:
		return 5
	case 1:
		return 4
	case 2:
		return 3
	case 3:
		return 2
	case 4:
		return 1
	default:
		return 5
	}
}
