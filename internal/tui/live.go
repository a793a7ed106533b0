// Package tui renders a live terminal view of a running world: an XY
// projection of the membranes and connections next to rolling stat charts.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sbrunel/cytomech/internal/mech"
	"github.com/sbrunel/cytomech/internal/sim"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model owns a world and steps it on every tick while the view is running.
type Model struct {
	world    *sim.World
	scenario string
	dt       float64

	canvas  *Canvas
	running bool

	pressureHistory []float64
	connHistory     []float64
}

func NewModel(world *sim.World, scenario string, dt float64) Model {
	return Model{
		world:           world,
		scenario:        scenario,
		dt:              dt,
		canvas:          NewCanvas(canvasWidth, canvasHeight),
		running:         true,
		pressureHistory: make([]float64, 0, historyCapacity),
		connHistory:     make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			m.world.Step(m.dt)
			m.record()
		}
	case TickMsg:
		if m.running {
			m.world.Step(m.dt)
			m.record()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) record() {
	s := m.world.Stats()
	m.pressureHistory = appendCapped(m.pressureHistory, s.MeanPressure)
	m.connHistory = appendCapped(m.connHistory, float64(s.Connections))
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

// draw projects the world onto the XY plane, auto-scaled so the whole
// population stays in frame.
func (m *Model) draw() {
	m.canvas.Clear()
	cells := m.world.Cells()
	if len(cells) == 0 {
		return
	}

	minX, maxX := cells[0].Position.X, cells[0].Position.X
	minY, maxY := cells[0].Position.Y, cells[0].Position.Y
	for _, c := range cells {
		r := c.Membrane.BoundingRadius()
		if c.Position.X-r < minX {
			minX = c.Position.X - r
		}
		if c.Position.X+r > maxX {
			maxX = c.Position.X + r
		}
		if c.Position.Y-r < minY {
			minY = c.Position.Y - r
		}
		if c.Position.Y+r > maxY {
			maxY = c.Position.Y + r
		}
	}

	cw, ch := float64(canvasWidth*2), float64(canvasHeight*4)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX < 1 {
		spanX = 1
	}
	if spanY < 1 {
		spanY = 1
	}
	scale := (cw - 4) / spanX
	if s := (ch - 4) / spanY; s < scale {
		scale = s
	}

	toScreen := func(x, y float64) (int, int) {
		sx := (x-minX)*scale + 2
		sy := ch - ((y-minY)*scale + 2)
		return int(sx), int(sy)
	}

	m.world.Manager().ForEach(func(_ mech.Handle, con *mech.CellCellConnection) {
		x0, y0 := toScreen(con.Cells[0].Position.X, con.Cells[0].Position.Y)
		x1, y1 := toScreen(con.Cells[1].Position.X, con.Cells[1].Position.Y)
		m.canvas.DrawLine(x0, y0, x1, y1)
	})

	for _, c := range cells {
		x, y := toScreen(c.Position.X, c.Position.Y)
		m.canvas.DrawCircle(x, y, int(c.Membrane.BoundingRadius()*scale))
	}
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()

	canvasView := canvasStyle.Render(m.canvas.String())

	s := m.world.Stats()
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")
	b.WriteString(status + "\n\n")

	if len(m.pressureHistory) > 1 {
		chart := asciigraph.Plot(m.pressureHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Mean pressure"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	if len(m.connHistory) > 1 {
		chart := asciigraph.Plot(m.connHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Connections"))
		b.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", s.Time)) + "\n")
	b.WriteString(labelStyle.Render("Cells") + valueStyle.Render(fmt.Sprintf("%d", s.Cells)) + "\n")
	b.WriteString(labelStyle.Render("Connections") + valueStyle.Render(fmt.Sprintf("%d", s.Connections)) + "\n")
	b.WriteString(labelStyle.Render("Mesh contacts") + valueStyle.Render(fmt.Sprintf("%d", s.ModelConnections)) + "\n")
	b.WriteString(labelStyle.Render("Mean radius") + valueStyle.Render(fmt.Sprintf("%.2f", s.MeanRadius)) + "\n")
	b.WriteString(helpStyle.Render("\nSP:Pause S:Step Q:Quit"))

	statsView := statsStyle.Render(b.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
