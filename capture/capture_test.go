package capture

import (
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"pianoarm/notes"
)

// newTestChannel builds a Channel without opening a real MIDI port, so the
// message-handling and queueing logic can be exercised directly.
func newTestChannel(opts Options) *Channel {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultOptions().Capacity
	}
	if opts.SplitPitch <= 0 {
		opts.SplitPitch = DefaultOptions().SplitPitch
	}
	return &Channel{
		opts:    opts,
		events:  make(chan Event, opts.Capacity),
		stopSig: make(chan struct{}),
		done:    make(chan struct{}),
		active:  make(map[uint8]activeNote),
		opened:  time.Now(),
	}
}

func TestNoteOnThenOffProducesTwoEvents(t *testing.T) {
	c := newTestChannel(DefaultOptions())
	c.onMessage(midi.NoteOn(0, 60, 90), 0)
	c.onMessage(midi.NoteOff(0, 60), 0)

	first := <-c.Events()
	second := <-c.Events()
	if first.Action != NoteOn || first.MidiID != 60 {
		t.Errorf("first event = %+v, want NoteOn/60", first)
	}
	if second.Action != NoteOff || second.MidiID != 60 {
		t.Errorf("second event = %+v, want NoteOff/60", second)
	}
}

func TestVelocityZeroNoteOnIsTreatedAsNoteOff(t *testing.T) {
	c := newTestChannel(DefaultOptions())
	c.onMessage(midi.NoteOn(0, 64, 90), 0)
	c.onMessage(midi.NoteOn(0, 64, 0), 0)

	<-c.Events() // the initial note-on
	ev := <-c.Events()
	if ev.Action != NoteOff {
		t.Errorf("velocity-0 note-on should surface as NoteOff, got %v", ev.Action)
	}
}

func TestHandSplitByPitch(t *testing.T) {
	c := newTestChannel(Options{SplitPitch: 60, Capacity: 10, DropNewest: true})
	c.onMessage(midi.NoteOn(0, 48, 90), 0) // below split: left
	c.onMessage(midi.NoteOn(0, 72, 90), 0) // at/above split: right

	left := <-c.Events()
	right := <-c.Events()
	if left.Hand != notes.HandLeft {
		t.Errorf("pitch 48 hand = %v, want left", left.Hand)
	}
	if right.Hand != notes.HandRight {
		t.Errorf("pitch 72 hand = %v, want right", right.Hand)
	}
}

func TestDropNewestOnOverflow(t *testing.T) {
	c := newTestChannel(Options{Capacity: 1, SplitPitch: 60, DropNewest: true})
	c.onMessage(midi.NoteOn(0, 60, 90), 0)
	c.onMessage(midi.NoteOn(0, 61, 90), 0) // queue is full, must be dropped, not block

	ev := <-c.Events()
	if ev.MidiID != 60 {
		t.Errorf("expected the first event to survive, got midi_id=%d", ev.MidiID)
	}
	select {
	case extra := <-c.Events():
		t.Errorf("expected no second event, got %+v", extra)
	default:
	}
}

func TestControlChangeIsDroppedNotEnqueued(t *testing.T) {
	c := newTestChannel(DefaultOptions())
	c.onMessage(midi.ControlChange(0, 64, 127), 0) // sustain pedal

	select {
	case ev := <-c.Events():
		t.Errorf("control-change should not be enqueued, got %+v", ev)
	default:
	}
}

func TestSaveToMIDIWritesObservedNotes(t *testing.T) {
	c := newTestChannel(DefaultOptions())
	c.onMessage(midi.NoteOn(0, 60, 90), 0)
	time.Sleep(2 * time.Millisecond)
	c.onMessage(midi.NoteOff(0, 60), 0)

	path := filepath.Join(t.TempDir(), "captured.mid")
	if err := c.SaveToMIDI(path); err != nil {
		t.Fatalf("SaveToMIDI failed: %v", err)
	}

	got, _, err := notes.Extract(path)
	if err != nil {
		t.Fatalf("Extract of saved capture failed: %v", err)
	}
	if len(got) != 1 || got[0].Semitone != 60 {
		t.Errorf("round-tripped capture = %+v, want one note at semitone 60", got)
	}
}

func TestActionMarshalJSON(t *testing.T) {
	b, err := NoteOn.MarshalJSON()
	if err != nil || string(b) != `"note_on"` {
		t.Errorf("NoteOn.MarshalJSON() = %s, %v, want \"note_on\"", b, err)
	}
}
