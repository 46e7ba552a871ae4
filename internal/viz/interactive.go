package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/experiment"
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuMarker = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var sceneInfo = map[string]string{
	"cloth": "hanging sheet with crossed repel links",
	"rope":  "chain of rigid segments",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable value on the config screen.
type field struct {
	name string
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
}

func intField(name string, ref func(c *config.Config) *int) field {
	return field{
		name: name,
		get:  func(c *config.Config) float64 { return float64(*ref(c)) },
		set:  func(c *config.Config, v float64) { *ref(c) = int(v) },
	}
}

func floatField(name string, ref func(c *config.Config) *float64) field {
	return field{
		name: name,
		get:  func(c *config.Config) float64 { return *ref(c) },
		set:  func(c *config.Config, v float64) { *ref(c) = v },
	}
}

var sceneFields = map[string][]field{
	"cloth": {
		intField("width", func(c *config.Config) *int { return &c.Cloth.Width }),
		intField("height", func(c *config.Config) *int { return &c.Cloth.Height }),
		floatField("grid size", func(c *config.Config) *float64 { return &c.Cloth.GridSize }),
		intField("anchors", func(c *config.Config) *int { return &c.Cloth.AnchorFrequency }),
	},
	"rope": {
		intField("segments", func(c *config.Config) *int { return &c.Rope.Segments }),
		floatField("length", func(c *config.Config) *float64 { return &c.Rope.Length }),
	},
}

var commonFields = []field{
	floatField("timestep", func(c *config.Config) *float64 { return &c.Timestep }),
	floatField("damping", func(c *config.Config) *float64 { return &c.Params.Damping }),
	floatField("stretch", func(c *config.Config) *float64 { return &c.Params.Stretchiness }),
	{
		name: "seed",
		get:  func(c *config.Config) float64 { return float64(c.Seed) },
		set:  func(c *config.Config, v float64) { c.Seed = int64(v) },
	},
}

// picker chooses a scene and preset, lets the user edit a few settings, then
// hands over to the live Model.
type picker struct {
	state, cursor int
	registry      *experiment.Registry
	scenes        []string
	selected      string
	presets       []string
	preset        int
	cfg           *config.Config
	fields        []field
	fieldCursor   int
	editing       bool
	editBuf       string
	err           string
	snapshot      SnapshotFunc
	log           logrus.FieldLogger
	liveModel     Model
}

func NewInteractiveApp(registry *experiment.Registry, snapshot SnapshotFunc, log logrus.FieldLogger) *picker {
	return &picker{
		state:    stateMenu,
		registry: registry,
		scenes:   registry.ListScenes(),
		snapshot: snapshot,
		log:      log,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.scenes[m.cursor]
		m.presets = config.ListPresets(m.selected)
		m.preset, m.fieldCursor, m.err = 0, 0, ""
		m.state = stateConfig
		m.loadPreset()
	}
	return m, nil
}

func (m *picker) loadPreset() {
	m.cfg = config.DefaultConfig()
	m.cfg.Scene = m.selected
	if len(m.presets) > 0 {
		if p := config.GetPreset(m.selected, m.presets[m.preset]); p != nil {
			m.cfg = p
		}
	}
	m.fields = append(append([]field{}, sceneFields[m.selected]...), commonFields...)
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.fields[m.fieldCursor].set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(m.fields)-1 {
			m.fieldCursor++
		}
	case "tab":
		if len(m.presets) > 0 {
			m.preset = (m.preset + 1) % len(m.presets)
			m.loadPreset()
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.fields[m.fieldCursor].get(m.cfg), 'g', -1, 64)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *picker) start() tea.Cmd {
	exp := experiment.New(m.cfg, m.registry, m.log)
	if err := exp.Setup(); err != nil {
		m.err = err.Error()
		return nil
	}
	m.liveModel = NewModel(exp, m.snapshot)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m picker) header(title, sub string) string {
	return "\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(sub) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n"
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.header("CLOTHSIM", "verlet constraint playground"))
	for i, name := range m.scenes {
		desc := sceneInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuMarker.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(desc)))
		}
	}
	b.WriteString(keyHints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	preset := "custom"
	if len(m.presets) > 0 {
		preset = "preset: " + m.presets[m.preset]
	}
	b.WriteString(m.header(strings.ToUpper(m.selected), preset))
	for i, f := range m.fields {
		valStr := fmt.Sprintf("%8.4g", f.get(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuMarker.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", f.name)), menuValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", f.name)), menuIdle.Render(valStr)))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + StatusStalled.Render(m.err) + "\n")
	}
	b.WriteString(keyHints("j/k", "select", "enter", "edit", "tab", "preset", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive opens the scene picker.
func RunInteractive(registry *experiment.Registry, snapshot SnapshotFunc, log logrus.FieldLogger) error {
	_, err := tea.NewProgram(NewInteractiveApp(registry, snapshot, log), tea.WithAltScreen()).Run()
	return err
}
