package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/artdyn/internal/scenario"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = 60
)

type TickMsg time.Time

// SceneFunc builds a fresh scene. The model calls it on start and on reset.
type SceneFunc func() (*scenario.Scene, error)

// Model steps a scene and draws it.
type Model struct {
	build    SceneFunc
	scene    *scenario.Scene
	dt       float64
	duration float64

	canvas  *Canvas
	camera  *Camera
	theme   Theme
	styles  Styles
	running bool
	help    bool
	err     error

	energy []float64
}

// NewModel builds the first scene. duration <= 0 runs until quit.
func NewModel(build SceneFunc, dt, duration float64) (Model, error) {
	m := Model{
		build:    build,
		dt:       dt,
		duration: duration,
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(),
		theme:    Themes[0],
		styles:   NewStyles(Themes[0]),
		running:  true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the world.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "t":
			m.theme = m.theme.Next()
			m.styles = NewStyles(m.theme)
		case "left", "h":
			m.camera.Orbit(-0.1, 0)
		case "right", "l":
			m.camera.Orbit(0.1, 0)
		case "up", "k":
			m.camera.Orbit(0, 0.1)
		case "down", "j":
			m.camera.Orbit(0, -0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.help = !m.help
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	s, err := m.build()
	if err != nil {
		return err
	}
	m.scene = s
	m.err = nil
	m.energy = m.energy[:0]
	m.energy = append(m.energy, s.World.TotalEnergy())

	m.camera.FitScene(s, m.canvas)
	return nil
}

func (m *Model) done() bool {
	return m.duration > 0 && m.scene.World.Time() >= m.duration-0.5*m.dt
}

// step advances the world by one frame.
func (m *Model) step() {
	if m.done() {
		m.running = false
		return
	}
	w := m.scene.World
	if err := w.Step(m.dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.energy = append(m.energy, w.TotalEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) draw() {
	Render(m.canvas, m.camera, m.scene)
}

// View renders the TUI.
func (m Model) View() string {
	m.draw()
	st := m.styles
	w := m.scene.World

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.scene.Name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.Failed.Render("FAILED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(st.Running.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(st.Paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3fs", w.Time()))
	if m.duration > 0 {
		row("Progress", st.Bar.Render(ProgressBar(w.Time()/m.duration, 20)))
	}
	row("Integrator", w.Integrator().Name())
	row("Energy", fmt.Sprintf("%.4f", m.energy[len(m.energy)-1]))
	row("Mode", w.Mode().String())
	stats := w.Stats()
	row("Rewinds", fmt.Sprintf("%d", stats.Rewinds))
	row("Impacts", fmt.Sprintf("%d", stats.Catastrophes))

	vals := m.scene.Metrics.Values()
	names := make([]string, 0, len(vals))
	for n := range vals {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		row(n, fmt.Sprintf("%.4g", vals[n]))
	}

	s.WriteString(st.Help.Render("SP:Pause R:Reset T:Theme Q:Quit\n←→↑↓:Orbit +/-:Zoom ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, st.Canvas.Render(m.canvas.String()), st.Stats.Render(s.String()))
	if m.help {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space    pause or resume
  R        rebuild the scene
  T        next theme
  ←/→      orbit about the vertical
  ↑/↓      tilt the camera
  +/-      zoom
  ?        toggle this help
  Q        quit
`
