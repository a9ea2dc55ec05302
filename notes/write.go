package notes

import (
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"pianoarm/errs"
)

// WriteSMF encodes notes as a single-track, format-0 Standard MIDI File at
// the given ticks-per-quarter resolution and bpm, following the teacher's
// build idiom (smf.New, per-event Add with deltas, track.Close). Shared by
// capture.Channel.SaveToMIDI so both read and write paths agree on timing.
func WriteSMF(path string, notes []Note, ticksPerQuarter uint16, bpm float64) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	secondsPerTick := 60.0 / (bpm * float64(ticksPerQuarter))

	type event struct {
		tick uint32
		msg  midi.Message
	}
	var events []event
	for _, n := range notes {
		onTick := uint32(n.Start / secondsPerTick)
		offTick := uint32((n.Start + n.Duration) / secondsPerTick)
		if offTick <= onTick {
			offTick = onTick + 1
		}
		ch := uint8(0)
		events = append(events,
			event{onTick, midi.NoteOn(ch, uint8(n.Semitone), n.Velocity)},
			event{offTick, midi.NoteOff(ch, uint8(n.Semitone))},
		)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	var track0 smf.Track
	track0.Add(0, smf.MetaTempo(bpm))
	var lastTick uint32
	for _, ev := range events {
		track0.Add(ev.tick-lastTick, ev.msg)
		lastTick = ev.tick
	}
	track0.Close(0)
	if err := s.Add(track0); err != nil {
		return errs.Wrap(errs.IoError, "building MIDI track", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoError, fmt.Sprintf("creating %s", path), err)
	}
	defer f.Close()

	if _, err := s.WriteTo(f); err != nil {
		return errs.Wrap(errs.IoError, fmt.Sprintf("writing %s", path), err)
	}
	return nil
}
