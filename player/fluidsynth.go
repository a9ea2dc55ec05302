package player

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"pianoarm/display"
	"pianoarm/notes"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// PreviewTrajectory plays a planned two-hand trajectory through
// FluidSynth with a live terminal display of which note and finger is
// currently sounding, the piano-domain replacement for the teacher's
// PlayMIDIWithDisplay (which drove a guitar backing track instead).
func PreviewTrajectory(trajectory []notes.PlannedNote, customSoundFont, instrument string) error {
	if _, err := exec.LookPath("fluidsynth"); err != nil {
		return fmt.Errorf("fluidsynth not found: please install with 'sudo apt install fluidsynth'")
	}

	soundFont, err := findSoundFont(customSoundFont)
	if err != nil {
		return err
	}
	fmt.Printf("Using SoundFont: %s\n", soundFont)

	tp, err := NewTrajectoryPlayer(trajectory, soundFont, instrument)
	if err != nil {
		return err
	}
	defer tp.Stop()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		tp.Start()
		<-waitForTrajectory(tp, trajectory)
		return nil
	}

	model := display.NewPerformanceModel(trajectory)
	model.SetPlayer(tp)
	tp.Start()

	prog := tea.NewProgram(model, tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

// waitForTrajectory returns a channel that closes once every note in
// the trajectory has had its note-on sent, for non-TTY environments
// where there is no TUI event loop to drive the wait.
func waitForTrajectory(tp *TrajectoryPlayer, trajectory []notes.PlannedNote) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for tp.CurrentIndex() < len(trajectory) {
			time.Sleep(50 * time.Millisecond)
		}
	}()
	return done
}

// ListSoundFonts returns all available soundfonts on the system.
func ListSoundFonts() []string {
	var found []string

	localPatterns := []string{"./soundfonts/*.sf2", "./soundfonts/*.SF2"}
	for _, pattern := range localPatterns {
		if matches, err := filepath.Glob(pattern); err == nil {
			found = append(found, matches...)
		}
	}

	systemLocations := []string{
		"/usr/share/sounds/sf2/FluidR3_GM.sf2",
		"/usr/share/sounds/sf2/default.sf2",
		"/usr/share/soundfonts/FluidR3_GM.sf2",
		"/usr/share/soundfonts/default.sf2",
		"/usr/share/soundfonts/default-GM.sf2",
		"/usr/share/sounds/sf2/TimGM6mb.sf2",
	}
	for _, loc := range systemLocations {
		if _, err := os.Stat(loc); err == nil {
			found = append(found, loc)
		}
	}

	systemPatterns := []string{
		"/usr/share/sounds/sf2/*.sf2",
		"/usr/share/soundfonts/*.sf2",
		"~/.local/share/soundfonts/*.sf2",
	}
	for _, pattern := range systemPatterns {
		if pattern[0] == '~' {
			home, _ := os.UserHomeDir()
			pattern = home + pattern[1:]
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			isDup := false
			for _, f := range found {
				if f == m {
					isDup = true
					break
				}
			}
			if !isDup {
				found = append(found, m)
			}
		}
	}

	return found
}

// findSoundFont locates a SoundFont file on the system.
func findSoundFont(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("soundfont not found: %s", customPath)
	}

	localPatterns := []string{"./soundfonts/*.sf2", "./soundfonts/*.SF2"}
	for _, pattern := range localPatterns {
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}

	home, _ := os.UserHomeDir()
	userLocations := []string{
		filepath.Join(home, ".local/share/soundfonts"),
		filepath.Join(home, "soundfonts"),
	}
	for _, dir := range userLocations {
		if matches, err := filepath.Glob(filepath.Join(dir, "*.sf2")); err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}

	systemLocations := []string{
		"/usr/share/sounds/sf2/FluidR3_GM.sf2",
		"/usr/share/sounds/sf2/default.sf2",
		"/usr/share/soundfonts/FluidR3_GM.sf2",
		"/usr/share/soundfonts/default.sf2",
		"/usr/share/soundfonts/default-GM.sf2",
		"/usr/share/sounds/sf2/TimGM6mb.sf2",
	}
	for _, loc := range systemLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	patterns := []string{"/usr/share/sounds/sf2/*.sf2", "/usr/share/soundfonts/*.sf2"}
	for _, pattern := range patterns {
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}

	return "", fmt.Errorf("no SoundFont (.sf2) file found. Please install fluid-soundfont-gm:\n" +
		"  sudo apt install fluid-soundfont-gm\n\n" +
		"Or place custom .sf2 files in ./soundfonts/ directory\n" +
		"Or specify with --soundfont flag")
}
