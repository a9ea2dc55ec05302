package display

import (
	"fmt"
	"strings"
	"time"

	"pianoarm/notes"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	perfPrimaryColor = lipgloss.Color("#00FFFF")
	perfLeftColor    = lipgloss.Color("#66CCFF")
	perfRightColor   = lipgloss.Color("#FFCC66")
	perfDimColor     = lipgloss.Color("#666666")

	perfTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	perfHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	perfLeftNoteStyle = lipgloss.NewStyle().Bold(true).Foreground(perfLeftColor)
	perfRightNoteStyle = lipgloss.NewStyle().Bold(true).Foreground(perfRightColor)
	perfDimStyle = lipgloss.NewStyle().Foreground(perfDimColor)
	perfProgressStyle = lipgloss.NewStyle().Foreground(perfPrimaryColor)
)

// PerfTickMsg drives the 50ms redraw loop, the same cadence the
// teacher's own TUI ticks its backing-track display at.
type PerfTickMsg time.Time

// PlayerController is the subset of TrajectoryPlayer's behavior this
// model drives. Declared locally (not imported from package player) so
// player can import display for PreviewTrajectory without a cycle —
// satisfied structurally, the same way the teacher's TUI decoupled
// itself from a concrete player type.
type PlayerController interface {
	TogglePause()
	IsPaused() bool
	MuteHand(hand notes.Hand)
	SetTempoScale(scale float64)
	CurrentIndex() int
}

// PerformanceModel is the Bubbletea model for a live trajectory
// preview: which note is sounding, in which hand, with which finger.
type PerformanceModel struct {
	trajectory []notes.PlannedNote
	player     PlayerController

	currentIdx int
	quitting   bool
	width      int

	leftMuted  bool
	rightMuted bool
	tempoScale float64
}

// NewPerformanceModel builds a model over a merged two-hand trajectory.
func NewPerformanceModel(trajectory []notes.PlannedNote) *PerformanceModel {
	return &PerformanceModel{
		trajectory: trajectory,
		tempoScale: 1.0,
		width:      100,
	}
}

// SetPlayer attaches the trajectory player driving playback.
func (m *PerformanceModel) SetPlayer(p PlayerController) {
	m.player = p
}

func (m *PerformanceModel) Init() tea.Cmd {
	return tea.Batch(perfTickCmd(), tea.EnterAltScreen)
}

func perfTickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return PerfTickMsg(t)
	})
}

func (m *PerformanceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ":
			if m.player != nil {
				m.player.TogglePause()
			}
		case "1":
			if m.player != nil {
				m.player.MuteHand(notes.HandLeft)
				m.leftMuted = !m.leftMuted
			}
		case "2":
			if m.player != nil {
				m.player.MuteHand(notes.HandRight)
				m.rightMuted = !m.rightMuted
			}
		case "-":
			m.tempoScale -= 0.1
			if m.tempoScale < 0.1 {
				m.tempoScale = 0.1
			}
			if m.player != nil {
				m.player.SetTempoScale(m.tempoScale)
			}
		case "+", "=":
			m.tempoScale += 0.1
			if m.tempoScale > 2.0 {
				m.tempoScale = 2.0
			}
			if m.player != nil {
				m.player.SetTempoScale(m.tempoScale)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case PerfTickMsg:
		if m.player != nil {
			m.currentIdx = m.player.CurrentIndex()
		}
		if m.currentIdx >= len(m.trajectory) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, perfTickCmd()
	}

	return m, nil
}

func (m *PerformanceModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderWindow())
	b.WriteString("\n\n")
	b.WriteString(m.renderProgressBar())
	return b.String()
}

func (m *PerformanceModel) renderHeader() string {
	title := perfTitleStyle.Render("planfinger performance")
	pauseIndicator := ""
	if m.player != nil && m.player.IsPaused() {
		pauseIndicator = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6600")).Render("  PAUSED")
	}
	muteIndicator := ""
	var muted []string
	if m.leftMuted {
		muted = append(muted, "L")
	}
	if m.rightMuted {
		muted = append(muted, "R")
	}
	if len(muted) > 0 {
		muteIndicator = perfHeaderStyle.Render(fmt.Sprintf("  [MUTE: %s]", strings.Join(muted, ",")))
	}
	tempo := perfHeaderStyle.Render(fmt.Sprintf("  %.1fx", m.tempoScale))
	return fmt.Sprintf("  %s%s%s%s", title, tempo, muteIndicator, pauseIndicator)
}

// renderWindow shows the notes immediately around the current cursor,
// annotated with hand and finger, the way a player would watch a
// scrolling fingering chart.
func (m *PerformanceModel) renderWindow() string {
	const before, after = 3, 6
	start := m.currentIdx - before
	if start < 0 {
		start = 0
	}
	end := m.currentIdx + after
	if end > len(m.trajectory) {
		end = len(m.trajectory)
	}

	var lines []string
	for i := start; i < end; i++ {
		pn := m.trajectory[i]
		line := fmt.Sprintf("  %-6s finger %d  %s",
			pn.Note.Name, pn.Finger, handLabel(pn.Note.Hand))
		style := perfDimStyle
		if pn.Note.Hand == notes.HandLeft {
			style = perfLeftNoteStyle
		} else if pn.Note.Hand == notes.HandRight {
			style = perfRightNoteStyle
		}
		if i == m.currentIdx {
			line = "▶" + line
			style = style.Bold(true).Underline(true)
		} else {
			line = " " + line
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

func handLabel(h notes.Hand) string {
	switch h {
	case notes.HandLeft:
		return "(left)"
	case notes.HandRight:
		return "(right)"
	default:
		return ""
	}
}

func (m *PerformanceModel) renderProgressBar() string {
	progress := 0.0
	if len(m.trajectory) > 0 {
		progress = float64(m.currentIdx) / float64(len(m.trajectory))
	}
	if progress > 1.0 {
		progress = 1.0
	}

	width := 50
	filled := int(progress * float64(width))
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)

	controls := perfHeaderStyle.Render("  [space] pause  [1/2] mute hand  [+/-] tempo  [q] quit")
	return fmt.Sprintf("  %s  %d%% (%d/%d)%s",
		perfProgressStyle.Render(bar), int(progress*100), m.currentIdx, len(m.trajectory), controls)
}
