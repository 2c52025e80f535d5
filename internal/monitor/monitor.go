package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ossmdev/ossmcfg/internal/canbus"
	"github.com/ossmdev/ossmcfg/internal/sensor"
)

// Message types for async bus events
type frameMsg struct {
	frame *canbus.Frame
}

type busErrMsg struct {
	err error
}

type tickMsg time.Time

// staleWindow is how long a reading stays "fresh" after the last broadcast
const staleWindow = 3 * time.Second

// tickInterval drives freshness checks and uptime display
const tickInterval = 500 * time.Millisecond

// keyMap defines key bindings for the monitor screen
type keyMap struct {
	Pause key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Labels maps sensor input positions to user-defined names for display.
// Nil values fall back to the SPN names from the catalogue.
type Labels struct {
	Temps     map[int]string
	Pressures map[int]string
}

// Model is the live telemetry dashboard for one OSSM controller.
// Broadcast frames arrive from a reader goroutine as frameMsg values and are
// folded into the sensor state; a ticker drives staleness marking.
type Model struct {
	Endpoint string // Where we're listening ("can0", bridge host:port)
	Labels   Labels

	data       *sensor.Data
	frames     <-chan *canbus.Frame
	errs       <-chan error
	spin       spinner.Model
	help       help.Model
	keys       keyMap
	width      int
	height     int
	paused     bool
	showHelp   bool
	frameCount uint64
	startedAt  time.Time
	lastErr    error
}

// NewModel creates a monitor model reading frames from the given channels.
// The caller owns the reader goroutine feeding the channels.
func NewModel(endpoint string, labels Labels, frames <-chan *canbus.Frame, errs <-chan error) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		Endpoint:  endpoint,
		Labels:    labels,
		data:      sensor.NewData(),
		frames:    frames,
		errs:      errs,
		spin:      sp,
		help:      help.New(),
		keys:      newKeyMap(),
		startedAt: time.Now(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.waitForFrame(),
		tick(),
	)
}

// waitForFrame returns a command that blocks on the next bus event
func (m Model) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		select {
		case frame, ok := <-m.frames:
			if !ok {
				return busErrMsg{err: fmt.Errorf("bus reader closed")}
			}
			return frameMsg{frame: frame}
		case err := <-m.errs:
			return busErrMsg{err: err}
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		}
		return m, nil

	case frameMsg:
		if !m.paused && msg.frame != nil {
			if m.data.Apply(*msg.frame) {
				m.frameCount++
			}
		}
		return m, m.waitForFrame()

	case busErrMsg:
		m.lastErr = msg.err
		return m, tea.Quit

	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Err returns the bus error that terminated the monitor, if any
func (m Model) Err() error {
	return m.lastErr
}

// FrameCount returns the number of telemetry frames folded into the display
func (m Model) FrameCount() uint64 {
	return m.frameCount
}

// Paused reports whether the display is frozen
func (m Model) Paused() bool {
	return m.paused
}

// Data exposes the current sensor state (for tests)
func (m Model) Data() *sensor.Data {
	return m.data
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderReadings())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("OSSM LIVE TELEMETRY")

	status := m.spin.View() + " listening on " + m.Endpoint
	if m.paused {
		status = pausedStyle.Render("⏸ paused") + "  " + m.Endpoint
	}

	stats := mutedStyle.Render(fmt.Sprintf("%d frames · up %s",
		m.frameCount, time.Since(m.startedAt).Round(time.Second)))

	return lipgloss.JoinVertical(lipgloss.Left, title, statusStyle.Render(status), stats)
}

func (m Model) renderReadings() string {
	fresh := m.data.Fresh(staleWindow)

	left := m.renderTemps(fresh)
	right := m.renderPressures(fresh)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	ambient := m.renderAmbient(fresh)
	return lipgloss.JoinVertical(lipgloss.Left, columns, "", ambient)
}

func (m Model) renderTemps(fresh bool) string {
	rows := []string{sectionStyle.Render("Temperatures")}

	add := func(label string, v float64, unit string) {
		rows = append(rows, m.renderRow(label, v, unit, fresh))
	}

	add(m.tempLabel(0, "Coolant"), m.data.CoolantTemp, "°C")
	add(m.tempLabel(1, "Oil Temp"), m.data.OilTemp, "°C")
	add(m.tempLabel(2, "Fuel Temp"), m.data.FuelTemp, "°C")
	add(m.tempLabel(3, "Boost Temp"), m.data.BoostTemp, "°C")
	add(m.tempLabel(4, "Exhaust Gas"), m.data.EGTTemp, "°C")
	add(m.tempLabel(5, "CAC Inlet"), m.data.CACInletTemp, "°C")
	add(m.tempLabel(6, "Transfer Pipe"), m.data.TransferPipeTemp, "°C")
	add(m.tempLabel(7, "Air Inlet"), m.data.AirInletTemp, "°C")

	return paneStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderPressures(fresh bool) string {
	rows := []string{sectionStyle.Render("Pressures")}

	add := func(label string, v float64, unit string) {
		rows = append(rows, m.renderRow(label, v, unit, fresh))
	}

	add(m.pressureLabel(0, "Oil Pressure"), m.data.OilPressure, "kPa")
	add(m.pressureLabel(1, "Fuel Pressure"), m.data.FuelPressure, "kPa")
	add(m.pressureLabel(2, "Coolant Press"), m.data.CoolantPressure, "kPa")
	add(m.pressureLabel(3, "Boost"), m.data.BoostPressure, "kPa")
	add(m.pressureLabel(4, "Air Inlet"), m.data.AirInletPressure, "kPa")
	add(m.pressureLabel(5, "CAC Inlet"), m.data.CACInletPressure, "kPa")
	add(m.pressureLabel(6, "Barometric"), m.data.BarometricPressure, "kPa")

	return paneStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderAmbient(fresh bool) string {
	rows := []string{sectionStyle.Render("Ambient")}
	rows = append(rows, m.renderRow("Ambient Temp", m.data.AmbientTemp, "°C", fresh))
	rows = append(rows, m.renderRow("Bay Temp", m.data.EngineBayTemp, "°C", fresh))
	rows = append(rows, m.renderRow("Humidity", m.data.Humidity, "%", fresh))

	return paneStyle.Render(strings.Join(rows, "\n"))
}

// renderRow formats one "Label ......... value unit" reading line
func (m Model) renderRow(label string, v float64, unit string, fresh bool) string {
	const labelWidth = 16

	name := label
	if len(name) > labelWidth {
		name = name[:labelWidth]
	}
	name = fmt.Sprintf("%-*s", labelWidth, name)

	if !sensor.Available(v) {
		return labelStyle.Render(name) + " " + naStyle.Render("   ---")
	}

	value := fmt.Sprintf("%7.1f %s", v, unit)
	if !fresh {
		return labelStyle.Render(name) + " " + staleStyle.Render(value+" (stale)")
	}
	return labelStyle.Render(name) + " " + valueStyle.Render(value)
}

func (m Model) tempLabel(idx int, fallback string) string {
	if name, ok := m.Labels.Temps[idx]; ok && name != "" {
		return name
	}
	return fallback
}

func (m Model) pressureLabel(idx int, fallback string) string {
	if name, ok := m.Labels.Pressures[idx]; ok && name != "" {
		return name
	}
	return fallback
}

func (m Model) renderFooter() string {
	return helpStyle.Render(m.help.View(m.keys))
}

// Run starts the monitor TUI over the given bus and blocks until it exits.
// It spawns the reader goroutine and tears it down with the bus on exit.
func Run(bus canbus.Bus, endpoint string, labels Labels) error {
	frames := make(chan *canbus.Frame, 64)
	errs := make(chan error, 1)
	done := make(chan struct{})

	// Reader goroutine: pump received frames into the model
	go func() {
		defer close(frames)
		for {
			select {
			case <-done:
				return
			default:
			}

			frame, err := bus.Recv(500 * time.Millisecond)
			if err != nil {
				select {
				case errs <- err:
				case <-done:
				}
				return
			}
			if frame == nil {
				continue // poll timeout, check done again
			}

			select {
			case frames <- frame:
			case <-done:
				return
			}
		}
	}()

	model := NewModel(endpoint, labels, frames, errs)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	close(done)

	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
