package notes

// TempoChange records a set_tempo meta message found while scanning a file.
// Only the first one actually drives tick-to-second conversion (see Extract);
// the rest are carried here for callers that want the full tempo map.
type TempoChange struct {
	Tick uint32
	BPM  float64
}

// ControlEvent is a non-note side-artifact worth preserving alongside the
// extracted notes: pedal and controller changes that a musical-notation
// consumer may want to render but that never feed the fingering planner.
// Ported from the controller constants in the original extractor
// (sustain/sostenuto/soft pedal, volume, expression, pan, modulation).
type ControlEvent struct {
	Tick       uint32
	Track      int
	Channel    uint8
	Controller uint8
	Value      uint8
}

// Well-known MIDI CC numbers surfaced on ControlEvent.Controller.
const (
	CCModulation = 1
	CCVolume     = 7
	CCPan        = 10
	CCExpression = 11
	CCSustain    = 64
	CCSostenuto  = 66
	CCSoft       = 67
)

// PercussionChannel is the MIDI channel (0-indexed) reserved for unpitched
// percussion and excluded from fingering.
const PercussionChannel = 9

// Metadata carries everything Extract recovers from a file besides the
// playable note list: the tempo actually used for timing, every tempo change
// seen (even ones that did not take effect), and the pedal/controller
// artifacts a renderer downstream of the planner may still want.
type Metadata struct {
	TicksPerQuarter uint16
	TemposSeen      []TempoChange
	ControlEvents   []ControlEvent
	Warnings        []string
}
