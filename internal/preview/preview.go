// Package preview provides a BubbleTea terminal rendition of a
// configured widget tree, so a config can be checked and gauges poked
// without a Wayland compositor.
package preview

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/glance/internal/config"
	"github.com/jmylchreest/glance/internal/widget"
	"github.com/jmylchreest/glance/internal/widgets"
)

const gaugeBarWidth = 30

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	clockStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	prunedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// KeyMap defines the preview key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Inc    key.Binding
	Dec    key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "previous gauge")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next gauge")),
		Inc:    key.NewBinding(key.WithKeys("+", "right"), key.WithHelp("+", "increment")),
		Dec:    key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "decrement")),
		Toggle: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Inc, k.Dec, k.Toggle, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// tickMsg drives the once-a-second refresh.
type tickMsg time.Time

// Model is the preview TUI model.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger

	cmds   chan widget.Command
	dirty  *widget.DirtyFlag
	root   widget.Widget
	gauges []widget.Gauge
	pruned int

	selected int
	keys     KeyMap
	help     help.Model
}

// New constructs the preview model. Gauge probes run here, exactly as
// they would at overlay startup; pruned nodes are counted and reported
// rather than hidden.
func New(cfg *config.Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Model{
		cfg:    cfg,
		logger: logger,
		cmds:   make(chan widget.Command, 64),
		dirty:  &widget.DirtyFlag{},
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}

	declared := countGaugeSpecs(cfg.Widget)
	m.root = widgets.Construct(cfg.Widget, m.cmds, m.dirty, logger)
	if m.root == nil {
		m.root = widget.NewVerticalLayout(nil)
	}
	widget.Walk(m.root, func(w widget.Widget) {
		if bar, ok := w.(*widget.Bar); ok {
			m.gauges = append(m.gauges, bar.Gauge())
		}
	})
	m.pruned = declared - len(m.gauges)
	return m
}

// countGaugeSpecs counts the gauge leaves declared in the config tree.
func countGaugeSpecs(spec config.Widget) int {
	n := 0
	switch spec.Type {
	case config.WidgetBattery, config.WidgetBacklight, config.WidgetAudio:
		n = 1
	}
	if spec.Child != nil {
		n += countGaugeSpecs(*spec.Child)
	}
	for i := range spec.Children {
		n += countGaugeSpecs(spec.Children[i])
	}
	return n
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// Drain pending gauge notifications the same way the overlay
		// loop does; the registered wake sources are discarded because
		// the next tick drains again anyway.
		m.root.Wait(&widget.WaitContext{})
		m.dirty.TestAndClear()
		m.drainCommands()
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.gauges)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Inc):
			if g := m.selectedGauge(); g != nil {
				g.Increment(0.05)
			}
		case key.Matches(msg, m.keys.Dec):
			if g := m.selectedGauge(); g != nil {
				g.Increment(-0.05)
			}
		case key.Matches(msg, m.keys.Toggle):
			if g := m.selectedGauge(); g != nil {
				g.Toggle()
			}
		}
	}
	return m, nil
}

func (m *Model) selectedGauge() widget.Gauge {
	if m.selected < 0 || m.selected >= len(m.gauges) {
		return nil
	}
	return m.gauges[m.selected]
}

// drainCommands discards loop commands the gauges enqueued; the preview
// repaints every tick regardless.
func (m *Model) drainCommands() {
	for {
		select {
		case <-m.cmds:
		default:
			return
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	now := time.Now()
	var b strings.Builder

	b.WriteString(titleStyle.Render("glance preview"))
	b.WriteString("\n\n")
	b.WriteString(clockStyle.Render(now.Format("15:04")))
	b.WriteString(dimStyle.Render("  " + now.Format("Monday, 02 January")))
	b.WriteString("\n\n")

	if len(m.gauges) == 0 {
		b.WriteString(dimStyle.Render("no gauges constructed"))
		b.WriteString("\n")
	}
	for i, g := range m.gauges {
		line := renderGauge(g)
		if i == m.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.pruned > 0 {
		b.WriteString(prunedStyle.Render(fmt.Sprintf("%d gauge(s) pruned: backing service unavailable", m.pruned)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderGauge draws one gauge as a text bar.
func renderGauge(g widget.Gauge) string {
	v := g.Value()
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	filled := int(v * gaugeBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", gaugeBarWidth-filled)
	return fmt.Sprintf("%-10s %s %3.0f%%", g.Name(), bar, v*100)
}
