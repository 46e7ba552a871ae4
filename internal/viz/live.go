package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/clothsim/internal/control"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/metrics"
)

const (
	width           = 72
	height          = 24
	historyCapacity = 600
	frameRate       = 60
	maxFrameDelta   = 0.25
	panSpeed        = 5.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Tool int

const (
	ToolGrab Tool = iota
	ToolDrag
	ToolCut
	ToolPin
)

func (t Tool) String() string {
	switch t {
	case ToolGrab:
		return "grab"
	case ToolDrag:
		return "drag"
	case ToolCut:
		return "cut"
	case ToolPin:
		return "pin"
	}
	return "?"
}

// SnapshotFunc saves the current world and returns where it went.
type SnapshotFunc func(w *dynamo.World) (string, error)

type param struct {
	name         string
	lo, hi, step float64
	ref          func(m *Model) *float64
}

var params = []param{
	{"damping", 0, 1, 0.05, func(m *Model) *float64 { return &m.world.Params.Damping }},
	{"stretch", 0, 5, 0.1, func(m *Model) *float64 { return &m.world.Params.Stretchiness }},
	{"repel", 0, 10, 0.25, func(m *Model) *float64 { return &m.world.Params.RepelStrength }},
	{"gravity", -10, 10, 0.5, func(m *Model) *float64 { return &m.world.Gravity[1] }},
	{"tool size", 0.01, 10, 0.05, func(m *Model) *float64 { return &m.radius }},
	{"wind min", 0, 10, 0.25, func(m *Model) *float64 { return &m.wind.Min }},
	{"wind max", 0, 10, 0.25, func(m *Model) *float64 { return &m.wind.Max }},
	{"wind freq", 0.01, 10, 0.25, func(m *Model) *float64 { return &m.wind.Frequency }},
}

// Model is the live cloth view. The world is stepped from tick messages
// using the wall time between them.
type Model struct {
	exp      *experiment.Experiment
	world    *dynamo.World
	wind     *control.Wind
	canvas   *Canvas
	camera   Camera
	snapshot SnapshotFunc

	cursor    mgl64.Vec2
	tool      Tool
	holding   bool
	grabber   control.Grabber
	radius    float64
	showRepel bool

	running   bool
	timescale float64
	lastTick  time.Time
	energy    []float64
	selected  int
	message   string
	showHelp  bool
}

// NewModel wraps an experiment that has already been set up.
func NewModel(exp *experiment.Experiment, snapshot SnapshotFunc) Model {
	m := Model{
		exp:       exp,
		canvas:    NewCanvas(width, height),
		snapshot:  snapshot,
		radius:    0.1,
		running:   true,
		timescale: exp.Config().Timescale,
		energy:    make([]float64, 0, historyCapacity),
	}
	m.attach()
	m.cursor = m.camera.Center
	return m
}

func (m *Model) attach() {
	m.world = m.exp.World()
	m.wind = m.exp.Wind()
	m.world.Timescale = m.timescale
	if !m.running {
		m.world.Timescale = 0
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(msg.Width-52, 20), max(msg.Height-4, 10))
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.frame(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.togglePause()
	case "<", ",":
		m.setTimescale(m.timescale / 2)
	case ">", ".":
		m.setTimescale(m.timescale * 2)
	case "r":
		m.reset()
	case "n":
		m.world.Gravity = mgl64.Vec2{}
	case "g":
		m.world.Gravity = m.exp.Config().GravityVec()
	case "f":
		m.world.Gravity = m.world.Gravity.Mul(-1)
	case "o":
		m.wind.Enabled = !m.wind.Enabled
	case "O":
		m.wind.Direction = -m.wind.Direction
	case "e":
		m.showRepel = !m.showRepel
	case "1":
		m.selectTool(ToolGrab)
	case "2":
		m.selectTool(ToolDrag)
	case "3":
		m.selectTool(ToolCut)
	case "4":
		m.selectTool(ToolPin)
	case "enter":
		m.use()
	case "up":
		m.moveCursor(0, 1)
	case "down":
		m.moveCursor(0, -1)
	case "left":
		m.moveCursor(-1, 0)
	case "right":
		m.moveCursor(1, 0)
	case "w":
		m.pan(0, 1)
	case "s":
		m.pan(0, -1)
	case "a":
		m.pan(-1, 0)
	case "d":
		m.pan(1, 0)
	case "]":
		m.camera.Zoom++
	case "[":
		m.camera.Zoom--
	case "c":
		m.camera.Reset()
		m.cursor = mgl64.Vec2{}
	case "tab":
		m.selected = (m.selected + 1) % len(params)
	case "shift+tab":
		m.selected = (m.selected + len(params) - 1) % len(params)
	case "=", "+":
		m.adjustParam(1)
	case "-", "_":
		m.adjustParam(-1)
	case "p":
		m.takeSnapshot()
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// frame advances the world by the wall time since the previous tick and
// applies held tools.
func (m *Model) frame(now time.Time) {
	delta := 1.0 / frameRate
	if !m.lastTick.IsZero() {
		delta = math.Min(now.Sub(m.lastTick).Seconds(), maxFrameDelta)
	}
	m.lastTick = now

	if m.holding {
		switch m.tool {
		case ToolGrab:
			m.grabber.Move(m.world, m.cursor)
		case ToolCut:
			control.Cut(m.world, m.cursor, m.radius)
		}
	}

	m.world.Update(delta)

	m.energy = append(m.energy, metrics.Kinetic(m.world))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) togglePause() {
	m.running = !m.running
	if m.running {
		m.world.Timescale = m.timescale
	} else {
		m.world.Timescale = 0
	}
}

func (m *Model) setTimescale(ts float64) {
	m.timescale = math.Min(math.Max(ts, 1.0/16), 16)
	if m.running {
		m.world.Timescale = m.timescale
	}
}

func (m *Model) selectTool(t Tool) {
	m.release()
	m.tool = t
}

func (m *Model) release() {
	m.holding = false
	m.grabber.End()
}

// use applies the current tool at the cursor. Grab, drag and cut latch on
// until used again.
func (m *Model) use() {
	if m.tool == ToolPin {
		n := control.TogglePins(m.world, m.cursor, m.radius)
		m.message = fmt.Sprintf("toggled %d pins", n)
		return
	}
	if m.holding {
		m.release()
		return
	}

	m.holding = true
	switch m.tool {
	case ToolGrab:
		n := m.grabber.Begin(m.world, m.cursor, m.radius)
		m.message = fmt.Sprintf("grabbed %d bodies", n)
	case ToolCut:
		n := control.Cut(m.world, m.cursor, m.radius)
		m.message = fmt.Sprintf("cut %d constraints", n)
	}
}

func (m *Model) cursorStep() float64 {
	return 2 / m.camera.Scale(m.canvas.PixelHeight())
}

func (m *Model) moveCursor(dx, dy float64) {
	from := m.cursor
	m.cursor = m.cursor.Add(mgl64.Vec2{dx, dy}.Mul(m.cursorStep()))
	if m.holding && m.tool == ToolDrag {
		control.Drag(m.world, from, m.cursor, m.radius)
	}
}

func (m *Model) pan(dx, dy float64) {
	step := panSpeed / frameRate * 4 / math.Pow(1.1, m.camera.Zoom)
	d := mgl64.Vec2{dx, dy}.Mul(step)
	m.camera.Pan(d)
	m.cursor = m.cursor.Add(d)
}

func (m *Model) adjustParam(dir float64) {
	p := params[m.selected]
	v := p.ref(m)
	*v = math.Min(math.Max(*v+dir*p.step, p.lo), p.hi)
	if m.wind.Min > m.wind.Max {
		m.wind.Min, m.wind.Max = m.wind.Max, m.wind.Min
	}
}

// reset rebuilds the scene from its config. Live settings and the camera
// carry over.
func (m *Model) reset() {
	if err := m.exp.Reset(); err != nil {
		m.message = "reset failed: " + err.Error()
		return
	}
	m.release()
	m.attach()
	m.energy = m.energy[:0]
}

func (m *Model) takeSnapshot() {
	if m.snapshot == nil {
		m.message = "snapshots disabled"
		return
	}
	where, err := m.snapshot(m.world)
	if err != nil {
		m.message = "snapshot failed: " + err.Error()
		return
	}
	m.message = "saved " + where
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	pw, ph := c.PixelWidth(), c.PixelHeight()

	for _, con := range m.world.Constraints() {
		if _, repel := con.(*dynamo.RepelConstraint); repel && !m.showRepel {
			continue
		}
		a, b := con.Bodies()
		x0, y0 := m.camera.Project(a.Position(), pw, ph)
		x1, y1 := m.camera.Project(b.Position(), pw, ph)
		c.DrawLine(x0, y0, x1, y1)
	}

	for _, b := range m.world.Bodies() {
		if b.Pinned {
			x, y := m.camera.Project(b.Position(), pw, ph)
			c.DrawCircle(x, y, 1.5)
		}
	}

	cx, cy := m.camera.Project(m.cursor, pw, ph)
	r := m.radius * m.camera.Scale(ph)
	if r >= 2 {
		c.DrawCircle(cx, cy, r)
	}
	c.DrawLine(cx-2, cy, cx+2, cy)
	c.DrawLine(cx, cy-2, cx, cy+2)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(clothStyle().Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.exp.Config().Scene)) + "\n")

	switch {
	case !m.running:
		s.WriteString(StatusPaused.Render("PAUSED"))
	case m.world.Stalls() > 0:
		s.WriteString(StatusStalled.Render(fmt.Sprintf("RUNNING (%d stalls)", m.world.Stalls())))
	default:
		s.WriteString(StatusRunning.Render("RUNNING"))
	}
	s.WriteString(fmt.Sprintf("  x%.3g\n\n", m.timescale))

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.SimulatedTime()))
	row("Steps", fmt.Sprintf("%d", m.world.Steps()))
	row("Bodies", fmt.Sprintf("%d", len(m.world.Bodies())))
	row("Links", fmt.Sprintf("%d", len(m.world.Constraints())))
	row("Stretch", fmt.Sprintf("%.1f%%", 100*metrics.Stretch(m.world)))
	row("Wind", fmt.Sprintf("%+.2f", m.wind.Direction*m.wind.Strength()))
	tool := m.tool.String()
	if m.holding {
		tool += " (held)"
	}
	row("Tool", tool)

	s.WriteString("\nPARAMETERS\n")
	for i, p := range params {
		v := *p.ref(&m)
		line := fmt.Sprintf("%-9s %s %.2f", p.name, ParamBar(v, p.lo, p.hi, 10), v)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n" + valueStyle.Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit ?:Help\n1-4:Tool ⏎:Use ←↑↓→:Cursor\nTab:Param =/-:Tune"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space   pause / resume        < >    halve / double timescale
  R       reset scene           Q      quit
  1 2 3 4 grab, drag, cut, pin  Enter  use tool at cursor
  Arrows  move cursor           WASD   pan camera
  [ ]     zoom out / in         C      recenter camera
  N G F   no / default / flip gravity
  O       toggle wind           Shift+O flip wind direction
  E       show repel links      P      save SVG snapshot
  Tab     next parameter        = -    tune parameter
  T       cycle theme           ?      toggle this help
`

// Run opens the live view on an experiment that has been set up.
func Run(exp *experiment.Experiment, snapshot SnapshotFunc) error {
	_, err := tea.NewProgram(NewModel(exp, snapshot), tea.WithAltScreen()).Run()
	return err
}
