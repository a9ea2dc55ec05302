package player

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"pianoarm/notes"
)

// TrajectoryPlayer drives FluidSynth through a planned two-hand
// trajectory in real time, the way the teacher's RealtimePlayer drove a
// backing track: a stdin pipe to an interactive `fluidsynth -s` process
// and a ticker goroutine that fires note-on/note-off as wall-clock
// catches up to each note's Start/Duration.
type TrajectoryPlayer struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	trajectory []notes.PlannedNote

	mu           sync.Mutex
	playing      bool
	paused       bool
	startTime    time.Time
	pausedAt     time.Time
	pausedTotal  time.Duration
	seekOffset   time.Duration
	nextIdx      int
	activeNotes  map[int]bool // semitone -> on
	mutedHand    map[notes.Hand]bool
	tempoScale   float64

	stopChan chan struct{}
	stopOnce sync.Once
}

// GMInstruments maps friendly instrument names to General MIDI program
// numbers, used to pick the voice a trajectory preview plays with.
var GMInstruments = map[string]int{
	"piano":          0,
	"acoustic_piano": 0,
	"bright_piano":   1,
	"electric_piano": 4,
	"honky_tonk":     3,
	"harpsichord":    6,
	"clavinet":       7,
	"organ":          16,
	"church_organ":   19,
}

func getGMProgram(name string, defaultProg int) int {
	if name == "" {
		return defaultProg
	}
	if prog, ok := GMInstruments[name]; ok {
		return prog
	}
	return defaultProg
}

// NewTrajectoryPlayer starts an interactive FluidSynth process and
// prepares it to play a merged (or single-hand) trajectory. Channel 0
// carries the left hand, channel 1 the right — so the two hands can be
// muted independently while previewing.
func NewTrajectoryPlayer(trajectory []notes.PlannedNote, soundFont, instrument string) (*TrajectoryPlayer, error) {
	cmd := exec.Command("fluidsynth",
		"-a", "pulseaudio",
		"-q",
		"-s",
		"-g", "1.0",
		soundFont,
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start fluidsynth: %w", err)
	}
	time.Sleep(200 * time.Millisecond)

	p := &TrajectoryPlayer{
		cmd:         cmd,
		stdin:       stdin,
		trajectory:  trajectory,
		activeNotes: make(map[int]bool),
		mutedHand:   make(map[notes.Hand]bool),
		tempoScale:  1.0,
		stopChan:    make(chan struct{}),
	}

	prog := getGMProgram(instrument, 0)
	p.sendCommand(fmt.Sprintf("prog 0 %d", prog))
	p.sendCommand(fmt.Sprintf("prog 1 %d", prog))

	return p, nil
}

func (p *TrajectoryPlayer) sendCommand(cmd string) error {
	_, err := fmt.Fprintf(p.stdin, "%s\n", cmd)
	return err
}

func channelFor(hand notes.Hand) uint8 {
	if hand == notes.HandRight {
		return 1
	}
	return 0
}

// Start begins playback from the beginning of the trajectory.
func (p *TrajectoryPlayer) Start() {
	p.mu.Lock()
	p.playing = true
	p.paused = false
	p.startTime = time.Now()
	p.pausedTotal = 0
	p.seekOffset = 0
	p.nextIdx = 0
	p.mu.Unlock()

	go p.playbackLoop()
}

func (p *TrajectoryPlayer) playbackLoop() {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			p.allNotesOff()
			return
		case <-ticker.C:
			p.mu.Lock()
			if !p.playing || p.paused {
				p.mu.Unlock()
				continue
			}

			elapsed := p.elapsed()
			for p.nextIdx < len(p.trajectory) {
				pn := p.trajectory[p.nextIdx]
				if pn.Note.Start > elapsed {
					break
				}
				p.playNoteOn(pn)
				p.nextIdx++
			}
			// turn off notes whose duration has elapsed
			for i := 0; i < p.nextIdx; i++ {
				pn := p.trajectory[i]
				if p.activeNotes[pn.Note.Semitone] && pn.Note.Start+pn.Note.Duration <= elapsed {
					p.playNoteOff(pn)
				}
			}

			if p.nextIdx >= len(p.trajectory) && len(p.activeNotes) == 0 {
				p.mu.Unlock()
				p.allNotesOff()
				return
			}
			p.mu.Unlock()
		}
	}
}

func (p *TrajectoryPlayer) playNoteOn(pn notes.PlannedNote) {
	if p.mutedHand[pn.Note.Hand] {
		return
	}
	ch := channelFor(pn.Note.Hand)
	p.sendCommand(fmt.Sprintf("noteon %d %d %d", ch, pn.Note.Semitone, pn.Note.Velocity))
	p.activeNotes[pn.Note.Semitone] = true
}

func (p *TrajectoryPlayer) playNoteOff(pn notes.PlannedNote) {
	ch := channelFor(pn.Note.Hand)
	p.sendCommand(fmt.Sprintf("noteoff %d %d", ch, pn.Note.Semitone))
	delete(p.activeNotes, pn.Note.Semitone)
}

func (p *TrajectoryPlayer) elapsed() float64 {
	real := time.Since(p.startTime) - p.pausedTotal + p.seekOffset
	if real < 0 {
		real = 0
	}
	return real.Seconds() * p.tempoScale
}

// Pause silences all currently sounding notes and halts advancement.
func (p *TrajectoryPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return
	}
	p.paused = true
	p.pausedAt = time.Now()
	for semitone := range p.activeNotes {
		p.sendCommand(fmt.Sprintf("noteoff %d %d", 0, semitone))
		p.sendCommand(fmt.Sprintf("noteoff %d %d", 1, semitone))
	}
}

// Resume continues playback from where Pause left off.
func (p *TrajectoryPlayer) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return
	}
	p.pausedTotal += time.Since(p.pausedAt)
	p.paused = false
}

// TogglePause flips between Pause and Resume.
func (p *TrajectoryPlayer) TogglePause() {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()
	if paused {
		p.Resume()
	} else {
		p.Pause()
	}
}

// MuteHand toggles whether a given hand's notes are sent to FluidSynth.
func (p *TrajectoryPlayer) MuteHand(hand notes.Hand) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mutedHand[hand] = !p.mutedHand[hand]
}

// SetTempoScale adjusts playback speed as a multiplier of real time
// (1.0 = original speed, 0.5 = half speed for slow practice).
func (p *TrajectoryPlayer) SetTempoScale(scale float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if scale <= 0 {
		scale = 1.0
	}
	p.tempoScale = scale
}

// CurrentIndex returns how many trajectory notes have had their
// note-on sent so far.
func (p *TrajectoryPlayer) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextIdx
}

// IsPaused reports whether playback is currently paused.
func (p *TrajectoryPlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *TrajectoryPlayer) allNotesOff() {
	for semitone := range p.activeNotes {
		p.sendCommand(fmt.Sprintf("noteoff %d %d", 0, semitone))
		p.sendCommand(fmt.Sprintf("noteoff %d %d", 1, semitone))
	}
	p.activeNotes = make(map[int]bool)
	for ch := 0; ch < 16; ch++ {
		p.sendCommand(fmt.Sprintf("cc %d 123 0", ch))
	}
}

// Stop halts playback and shuts down the FluidSynth process.
func (p *TrajectoryPlayer) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})

	p.allNotesOff()
	p.sendCommand("quit")
	p.stdin.Close()

	done := make(chan error, 1)
	go func() {
		done <- p.cmd.Wait()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		p.cmd.Process.Kill()
		<-done
	}
}
