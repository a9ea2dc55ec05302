// Package capture reads a live MIDI input port and turns it into a
// bounded stream of note events, grounded on the rtmididrv Listen-callback
// idiom used elsewhere in the corpus for virtual MIDI devices.
package capture

import (
	"context"
	"log"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"pianoarm/errs"
	"pianoarm/notes"
)

// Action tags whether an Event is a key going down or coming up.
type Action int

const (
	NoteOn Action = iota
	NoteOff
)

func (a Action) String() string {
	if a == NoteOn {
		return "note_on"
	}
	return "note_off"
}

// MarshalJSON renders Action as spec.md's "note_on"/"note_off" strings.
func (a Action) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// Event is one observed key transition.
type Event struct {
	Action  Action     `json:"action"`
	KeyName string     `json:"key_name"`
	MidiID  uint8      `json:"midi_id"`
	Hand    notes.Hand `json:"hand"`
	At      time.Time  `json:"timestamp"`
}

// Options configures a Channel's queue and hand-split behaviour.
type Options struct {
	Capacity   int
	SplitPitch int
	DropNewest bool
}

// DefaultOptions matches spec.md §4.4's defaults.
func DefaultOptions() Options {
	return Options{Capacity: 100, SplitPitch: 60, DropNewest: true}
}

type activeNote struct {
	velocity uint8
	at       time.Time
}

// Channel owns one open MIDI input port and the single producer goroutine
// reading it. Events() is the consumer side; no other exported surface
// touches the producer's state.
type Channel struct {
	port     drivers.In
	opts     Options
	events   chan Event
	stopFn   func()
	stopSig  chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	active   map[uint8]activeNote
	observed []notes.Note
	opened   time.Time
}

// Open starts listening on port and returns a Channel whose Events()
// stream begins immediately. The producer goroutine is the sole writer
// of the active-notes map and the observed-note log; Stop coordinates its
// shutdown via a closed signal channel, not a lock.
func Open(port drivers.In, opts Options) (*Channel, error) {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultOptions().Capacity
	}
	if opts.SplitPitch <= 0 {
		opts.SplitPitch = DefaultOptions().SplitPitch
	}

	c := &Channel{
		port:    port,
		opts:    opts,
		events:  make(chan Event, opts.Capacity),
		stopSig: make(chan struct{}),
		done:    make(chan struct{}),
		active:  make(map[uint8]activeNote),
		opened:  time.Now(),
	}

	stop, err := port.Listen(c.onMessage, drivers.ListenConfig{})
	if err != nil {
		return nil, errs.Wrap(errs.IoError, "opening MIDI input port", err)
	}
	c.stopFn = stop
	close(c.done) // producer here is the driver's own goroutine; nothing further to join
	return c, nil
}

func (c *Channel) onMessage(data []byte, _ int32) {
	msg := midi.Message(data)

	var ch, key, vel uint8
	if msg.GetNoteOn(&ch, &key, &vel) {
		if vel == 0 {
			c.emitNoteOff(key)
			return
		}
		c.emitNoteOn(key, vel)
		return
	}
	if msg.GetNoteOff(&ch, &key, &vel) {
		c.emitNoteOff(key)
		return
	}

	var ctrl, val uint8
	if msg.GetControlChange(&ch, &ctrl, &val) {
		log.Printf("capture: dropped control-change %d=%d on channel %d", ctrl, val, ch)
		return
	}
	var bend int16
	if msg.GetPitchBend(&ch, &bend) {
		log.Printf("capture: dropped pitch-bend %d on channel %d", bend, ch)
		return
	}
}

func (c *Channel) emitNoteOn(key, vel uint8) {
	now := time.Now()
	c.mu.Lock()
	c.active[key] = activeNote{velocity: vel, at: now}
	c.mu.Unlock()

	hand := notes.HandLeft
	if int(key) >= c.opts.SplitPitch {
		hand = notes.HandRight
	}
	c.enqueue(Event{Action: NoteOn, KeyName: notes.Name(int(key)), MidiID: key, Hand: hand, At: now})
}

func (c *Channel) emitNoteOff(key uint8) {
	now := time.Now()
	c.mu.Lock()
	open, ok := c.active[key]
	if ok {
		delete(c.active, key)
		c.observed = append(c.observed, notes.Note{
			Semitone: int(key),
			Name:     notes.Name(int(key)),
			Start:    open.at.Sub(c.opened).Seconds(),
			Duration: now.Sub(open.at).Seconds(),
			Velocity: open.velocity,
		})
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	hand := notes.HandLeft
	if int(key) >= c.opts.SplitPitch {
		hand = notes.HandRight
	}
	c.enqueue(Event{Action: NoteOff, KeyName: notes.Name(int(key)), MidiID: key, Hand: hand, At: now})
}

// enqueue applies the overflow policy: with DropNewest set (the default) a
// full queue drops the new event, so the capture loop never blocks on a
// slow consumer; with DropNewest unset the send blocks until there is room.
func (c *Channel) enqueue(ev Event) {
	if !c.opts.DropNewest {
		c.events <- ev
		return
	}
	select {
	case c.events <- ev:
	default:
		log.Printf("capture: queue full, dropping event %v", ev)
	}
}

// Events returns the consumer-facing event stream.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Stop closes the stop signal, calls the driver's stop closure (if the
// channel was opened on a port), waits up to a 2s grace period for the
// producer to finish, then closes the event stream. Stop does not take
// c.mu and does not wait for an in-flight SaveToMIDI call; SaveToMIDI
// writes from its own snapshot of the observed notes.
func (c *Channel) Stop(ctx context.Context) error {
	close(c.stopSig)
	if c.stopFn != nil {
		c.stopFn()
	}

	grace, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	select {
	case <-c.done:
	case <-grace.Done():
	}
	close(c.events)
	return nil
}

// OpenSimulated starts a synthetic producer that replays a planned
// trajectory as timed Events on the same Action/Event surface a live
// MIDI port produces. The api package's chat handler uses it after
// pipeline.Run to hand a plan off to the performance SSE stream without
// requiring real MIDI hardware: the replay goroutine paces itself
// against wall-clock time the same way player.TrajectoryPlayer does.
func OpenSimulated(trajectory []notes.PlannedNote, opts Options) *Channel {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultOptions().Capacity
	}

	c := &Channel{
		opts:    opts,
		events:  make(chan Event, opts.Capacity),
		stopSig: make(chan struct{}),
		done:    make(chan struct{}),
		active:  make(map[uint8]activeNote),
		opened:  time.Now(),
	}

	go c.replay(trajectory)
	return c
}

type pendingOff struct {
	note  notes.PlannedNote
	offAt float64
}

func (c *Channel) replay(trajectory []notes.PlannedNote) {
	defer close(c.done)

	start := time.Now()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	var pending []pendingOff
	idx := 0

	for {
		select {
		case <-c.stopSig:
			return
		case <-ticker.C:
			elapsed := time.Since(start).Seconds()
			for idx < len(trajectory) && trajectory[idx].Note.Start <= elapsed {
				pn := trajectory[idx]
				c.enqueue(Event{
					Action: NoteOn, KeyName: pn.Note.Name, MidiID: uint8(pn.Note.Semitone),
					Hand: pn.Note.Hand, At: time.Now(),
				})
				pending = append(pending, pendingOff{note: pn, offAt: pn.Note.Start + pn.Note.Duration})
				idx++
			}

			var remaining []pendingOff
			for _, p := range pending {
				if p.offAt > elapsed {
					remaining = append(remaining, p)
					continue
				}
				c.enqueue(Event{
					Action: NoteOff, KeyName: p.note.Note.Name, MidiID: uint8(p.note.Note.Semitone),
					Hand: p.note.Note.Hand, At: time.Now(),
				})
			}
			pending = remaining

			if idx >= len(trajectory) && len(pending) == 0 {
				return
			}
		}
	}
}

// SaveToMIDI serialises every observed complete note back into a Standard
// MIDI File, converting wall-clock deltas to ticks at the fixed
// 120 BPM / 480 ticks-per-beat convention spec.md names.
func (c *Channel) SaveToMIDI(path string) error {
	c.mu.Lock()
	snapshot := make([]notes.Note, len(c.observed))
	copy(snapshot, c.observed)
	c.mu.Unlock()

	return notes.WriteSMF(path, snapshot, 480, 120)
}
