package notes

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"pianoarm/errs"
)

// pendingNote is a queued note-on waiting for its matching note-off, keyed
// by (track, channel, pitch) so re-triggers of the same pitch on the same
// track resolve in start order.
type pendingNote struct {
	startTick uint32
	velocity  uint8
}

// Extract reads a Standard MIDI File (format 0 or 1) and returns its
// playable notes in start order, plus the tempo/controller metadata a
// caller may still want. Percussion (channel 9) is excluded from notes but
// not from metadata.
func Extract(path string) ([]Note, Metadata, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return nil, Metadata{}, errs.Wrap(errs.ParseError, fmt.Sprintf("reading %s", path), err)
	}

	ticksPerQuarter, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, Metadata{}, errs.New(errs.ParseError, fmt.Sprintf("%s: only metric-ticks timing is supported", path))
	}

	meta := Metadata{TicksPerQuarter: uint16(ticksPerQuarter)}
	// 120 BPM is the MIDI default tempo, used until the first set_tempo
	// meta message is seen.
	secondsPerTick := 60.0 / (120.0 * float64(ticksPerQuarter))
	tempoSet := false

	var notes []Note
	pending := map[pendingKey][]pendingNote{}

	for trackIdx, track := range s.Tracks {
		var tick uint32
		for _, ev := range track {
			tick += ev.Delta

			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) {
				meta.TemposSeen = append(meta.TemposSeen, TempoChange{Tick: tick, BPM: bpm})
				if !tempoSet {
					secondsPerTick = 60.0 / (bpm * float64(ticksPerQuarter))
					tempoSet = true
				}
				continue
			}

			var ch, key, vel uint8
			if ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0 {
				k := pendingKey{track: trackIdx, channel: ch, pitch: key}
				pending[k] = append(pending[k], pendingNote{startTick: tick, velocity: vel})
				continue
			}
			if (ev.Message.GetNoteOff(&ch, &key, &vel)) ||
				(ev.Message.GetNoteOn(&ch, &key, &vel) && vel == 0) {
				k := pendingKey{track: trackIdx, channel: ch, pitch: key}
				queue := pending[k]
				if len(queue) == 0 {
					continue
				}
				open := queue[0]
				pending[k] = queue[1:]

				if ch == PercussionChannel {
					continue
				}
				if tick == open.startTick {
					continue
				}
				notes = append(notes, Note{
					Semitone: int(key),
					Name:     Name(int(key)),
					Start:    float64(open.startTick) * secondsPerTick,
					Duration: float64(tick-open.startTick) * secondsPerTick,
					Velocity: open.velocity,
					Track:    trackIdx,
				})
				continue
			}

			var ctrl, val uint8
			if ev.Message.GetControlChange(&ch, &ctrl, &val) {
				meta.ControlEvents = append(meta.ControlEvents, ControlEvent{
					Tick: tick, Track: trackIdx, Channel: ch, Controller: ctrl, Value: val,
				})
			}
		}

		for k, queue := range pending {
			if k.track != trackIdx || len(queue) == 0 {
				continue
			}
			meta.Warnings = append(meta.Warnings, fmt.Sprintf(
				"track %d: note-on for pitch %d never closed, dropped", trackIdx, k.pitch))
			delete(pending, k)
		}
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Start < notes[j].Start })

	return notes, meta, nil
}

type pendingKey struct {
	track   int
	channel uint8
	pitch   uint8
}
