package fingering

import "pianoarm/notes"

// Hardware white-key ranges, keyed by hand. Left covers A0(1)..B3(23);
// right covers C4(24)..C8(52). Ported from find_arm_positions_optimized's
// LEFT_HAND_RANGE / RIGHT_HAND_RANGE.
var handRange = map[notes.Hand][2]int{
	notes.HandLeft:  {1, 23},
	notes.HandRight: {24, 52},
}

// reachWidth is how many white keys back from the played key the arm's
// reach window extends: right hand covers 6 keys (has an extended-pinky
// slot), left hand covers 5.
func reachWidth(hand notes.Hand) int {
	if hand == notes.HandRight {
		return 5
	}
	return 4
}

const maxArmPosition = 52

// forcedPosition pins a specific white-key index to a fixed arm-position
// window regardless of what the general reach window would allow, for the
// six boundary pitches where the original hard-codes a single finger.
type forcedPosition struct {
	hand           notes.Hand
	whiteKeyIdx    int
	minPos, maxPos int
}

var forcedPositions = []forcedPosition{
	{notes.HandRight, 24, 24, 24}, // C4: thumb, offset 0
	{notes.HandRight, 51, 46, 47}, // B7: pinky, offset >= 4
	{notes.HandRight, 52, 47, 48}, // C8: pinky, offset >= 4
	{notes.HandLeft, 23, 19, 19},  // B3: thumb, offset 4
	{notes.HandLeft, 1, 1, 1},     // A0: pinky, offset 0
	{notes.HandLeft, 2, 2, 2},     // B0: pinky, offset 0
}

// windowFor computes the base reach window for a white-key index, then
// applies any forced override. It never clamps silently past the hand's
// hardware range — callers filter out-of-range notes before this is
// called.
func windowFor(hand notes.Hand, whiteKeyIdx int) (lo, hi int) {
	width := reachWidth(hand)
	lo = whiteKeyIdx - width
	if lo < 1 {
		lo = 1
	}
	hi = whiteKeyIdx
	if hi > maxArmPosition {
		hi = maxArmPosition
	}

	for _, f := range forcedPositions {
		if f.hand == hand && f.whiteKeyIdx == whiteKeyIdx {
			return f.minPos, f.maxPos
		}
	}
	return lo, hi
}

// inHandRange reports whether a white-key index is reachable by hand at
// all, independent of any forced override.
func inHandRange(hand notes.Hand, whiteKeyIdx int) bool {
	r, ok := handRange[hand]
	if !ok {
		return true // HandBoth: no hardware restriction
	}
	return whiteKeyIdx >= r[0] && whiteKeyIdx <= r[1]
}

// blackKeyFinger maps (hand, letter) to the finger a black key at that
// letter always uses, ported one-to-one from get_black_key_finger. Octave
// bounds (left: 0-3, right: >=4) are enforced by the caller via
// inHandRange before this table is consulted, so the table itself only
// keys on letter.
var blackKeyFinger = map[notes.Hand]map[byte]int{
	notes.HandLeft: {
		'C': 3, 'D': 2, 'F': 4, 'G': 3, 'A': 2,
	},
	notes.HandRight: {
		'C': 2, 'D': 3, 'F': 2, 'G': 3, 'A': 4,
	},
}

// blackKeyFingerA0 is the one left-hand exception: A0# uses the ring
// finger instead of the index finger the general A-letter rule gives.
const blackKeyFingerA0 = 4

// whiteKeyFinger maps (hand, offset) to a finger for white keys, where
// offset = whiteKeyIdx - armPosition. Right hand: thumb at offset 0,
// pinky at offset 4 (normal) or 5 (extended). Left hand: pinky at offset
// 0, thumb at offset 4 (mirrored, since the left hand's thumb sits toward
// the high end of its reach).
var whiteKeyFinger = map[notes.Hand]map[int]int{
	notes.HandRight: {0: 1, 1: 2, 2: 3, 3: 4, 4: 5, 5: 5},
	notes.HandLeft:  {0: 5, 1: 4, 2: 3, 3: 2, 4: 1},
}

// isExtendedPinkyOffset reports whether offset is the right hand's
// extended-pinky slot. The left hand never has one.
func isExtendedPinkyOffset(hand notes.Hand, offset int) bool {
	return hand == notes.HandRight && offset == 5
}
