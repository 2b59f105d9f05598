// Package preview hosts an orchestrator in the terminal. Keys and the mouse
// wheel scroll the page, mouse motion moves the pointer, and every frame tick
// advances the orchestrator by the wall-clock delta.
package preview

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/scrollstage/internal/config"
	"github.com/ivlev/scrollstage/internal/engine"
	"github.com/ivlev/scrollstage/internal/keyframe"
	"github.com/ivlev/scrollstage/internal/timing"
)

const (
	frameInterval = time.Second / 60
	maxFrameDelta = 100 * time.Millisecond
	lineSteps     = 10 // key presses per viewport unit
)

type frameMsg time.Time

// poseModel stands in for the 3D model; the view prints its last pose
type poseModel struct {
	pose  keyframe.Pose
	bound bool
}

func (p *poseModel) SetPose(pose keyframe.Pose) {
	p.pose = pose
	p.bound = true
}

// Model is the bubbletea model of the preview
type Model struct {
	orch   *engine.Orchestrator
	clock  *timing.FrameClock
	model  *poseModel
	unit   float64
	scroll float64
	max    float64
	width  int
	height int
	done   bool
}

// New creates a preview over o. provider may be nil for the system clock.
func New(o *engine.Orchestrator, c *config.Choreography, provider timing.TimeProvider) *Model {
	unit := c.ViewportUnit
	return &Model{
		orch:  o,
		clock: timing.NewFrameClock(provider, maxFrameDelta),
		model: &poseModel{},
		unit:  unit,
		max:   float64(len(c.Keyframes)-1) * unit,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	m.orch.Mount(m.model)
	m.clock.Step()
	return tick()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.orch.Unmount()
			m.done = true
			return m, tea.Quit
		case "down", "j":
			m.scrollBy(m.unit / lineSteps)
		case "up", "k":
			m.scrollBy(-m.unit / lineSteps)
		case "pgdown", " ":
			m.scrollBy(m.unit)
		case "pgup":
			m.scrollBy(-m.unit)
		case "home", "g":
			m.scrollTo(0)
		case "end", "G":
			m.scrollTo(m.max)
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			m.scrollBy(m.unit / lineSteps)
		case tea.MouseButtonWheelUp:
			m.scrollBy(-m.unit / lineSteps)
		default:
			m.orch.OnPointer(m.pointer(msg.X, msg.Y))
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case frameMsg:
		if m.done {
			return m, nil
		}
		m.orch.Tick(m.clock.Step())
		return m, tick()
	}
	return m, nil
}

func (m *Model) scrollBy(d float64) {
	m.scrollTo(m.scroll + d)
}

func (m *Model) scrollTo(v float64) {
	m.scroll = math.Max(0, math.Min(m.max, v))
	m.orch.OnScroll(m.scroll)
}

// pointer maps a terminal cell to normalized device coordinates, y up
func (m *Model) pointer(x, y int) (float64, float64) {
	if m.width < 2 || m.height < 2 {
		return 0, 0
	}
	nx := 2*float64(x)/float64(m.width-1) - 1
	ny := 1 - 2*float64(y)/float64(m.height-1)
	return nx, ny
}

// Scroll returns the current scroll coordinate
func (m *Model) Scroll() float64 {
	return m.scroll
}

// View implements tea.Model
func (m *Model) View() string {
	if m.done {
		return ""
	}
	s := m.orch.Snapshot()

	var b strings.Builder
	b.WriteString("scrollstage preview\n")
	b.WriteString("===================\n\n")
	fmt.Fprintf(&b, "t=%s  scroll=%.0f/%.0f  zone=%d (%s)  phase=%.2f\n",
		s.Time.Truncate(time.Millisecond), s.Scroll, m.max, s.Zone, s.Section, s.Phase)
	fmt.Fprintf(&b, "pose    %s\n", formatPose(m.model.pose))
	fmt.Fprintf(&b, "target  %s\n\n", formatPose(s.Target))

	fmt.Fprintf(&b, "progress [%s] %3.0f%%\n", bar(s.Progress, 30), s.Progress*100)
	b.WriteString("stages   ")
	for _, on := range s.Flags {
		if on {
			b.WriteString("[x]")
		} else {
			b.WriteString("[ ]")
		}
	}
	if s.Settled {
		b.WriteString("  settled")
	}
	if s.HasPlayedEver {
		b.WriteString("  played")
	}
	b.WriteString("\n\n")

	for _, t := range s.Texts {
		line := t.Displayed
		if t.Cursor {
			line += "_"
		}
		fmt.Fprintf(&b, "%-10s %s\n", t.Name, line)
	}

	b.WriteString("\n(j/k or wheel: scroll, pgup/pgdn: section, g/G: top/bottom, q: quit)")
	return b.String()
}

func bar(v float64, width int) string {
	n := int(math.Round(math.Max(0, math.Min(1, v)) * float64(width)))
	return strings.Repeat("#", n) + strings.Repeat("-", width-n)
}

func formatPose(p keyframe.Pose) string {
	return fmt.Sprintf("pos(%+.2f %+.2f %+.2f) rot(%+.2f %+.2f %+.2f) scale %.2f",
		p.Position.X(), p.Position.Y(), p.Position.Z(),
		p.Rotation.X(), p.Rotation.Y(), p.Rotation.Z(), p.Scale)
}
