package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"fleetops-server/internal/model"
)

const maxLogLines = 200

const (
	colorReset   = "\x1b[0m"
	colorGray    = "\x1b[90m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorRed     = "\x1b[31m"
	colorCyan    = "\x1b[36m"
	colorMagenta = "\x1b[35m"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okDot       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	downDot     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
	severityHue = map[string]string{
		model.SeverityInfo:     colorCyan,
		model.SeverityWarning:  colorYellow,
		model.SeverityCritical: colorRed,
	}
)

// Model renders the fleet table and the live event log.
type Model struct {
	table      table.Model
	vp         viewport.Model
	drones     map[string]model.Drone
	order      []string
	logs       []string
	wrap       bool
	autoscroll bool
	connected  bool
	samples    int
	alerts     int
	height     int
	err        error
}

// NewModel builds the initial TUI state.
func NewModel() Model {
	cols := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 16},
		{Title: "Status", Width: 11},
		{Title: "Batt", Width: 6},
		{Title: "Alt", Width: 7},
		{Title: "Speed", Width: 7},
		{Title: "Signal", Width: 7},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return Model{
		table:      t,
		vp:         viewport.New(0, 0),
		drones:     make(map[string]model.Drone),
		autoscroll: true,
		connected:  true,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "s":
			m.autoscroll = !m.autoscroll
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case snapshotMsg:
		for _, d := range msg.Drones {
			m.upsert(d)
		}
		for _, a := range msg.Alerts {
			if !a.Acknowledged {
				m.appendLog(m.alertLine(a))
			}
		}
		m.refreshTable()
		m.refreshViewport()
	case telemetryMsg:
		m.samples++
		if d, ok := m.drones[msg.DroneID]; ok {
			d.Latitude = msg.Latitude
			d.Longitude = msg.Longitude
			d.Altitude = msg.Altitude
			d.Speed = msg.Speed
			d.Heading = msg.Heading
			d.Battery = msg.Battery
			d.SignalStrength = msg.SignalStrength
			m.drones[msg.DroneID] = d
		} else {
			m.upsert(model.Drone{ID: msg.DroneID, Battery: msg.Battery,
				Altitude: msg.Altitude, Speed: msg.Speed, SignalStrength: msg.SignalStrength})
		}
		m.refreshTable()
	case droneMsg:
		m.upsert(msg.Drone)
		m.refreshTable()
	case alertMsg:
		m.alerts++
		m.appendLog(m.alertLine(msg.Alert))
		m.refreshViewport()
	case disconnectedMsg:
		m.connected = false
		m.err = msg.err
		m.appendLog(fmt.Sprintf("%s[%s]%s feed closed", colorGray, time.Now().Format(time.RFC3339), colorReset))
		m.refreshViewport()
	}
	return m, nil
}

func (m *Model) upsert(d model.Drone) {
	if _, ok := m.drones[d.ID]; !ok {
		m.order = append(m.order, d.ID)
	}
	m.drones[d.ID] = d
}

func (m *Model) appendLog(line string) {
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

func (m Model) alertLine(a model.Alert) string {
	hue, ok := severityHue[a.Severity]
	if !ok {
		hue = colorMagenta
	}
	return fmt.Sprintf("%s[%s]%s %s%s%s drone=%s %s",
		colorGray, a.CreatedAt.Format(time.RFC3339), colorReset,
		hue, strings.ToUpper(a.Severity), colorReset,
		a.DroneID, a.Message)
}

func (m *Model) refreshTable() {
	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		d := m.drones[id]
		rows = append(rows, table.Row{
			d.ID, d.Name, statusCell(d.Status),
			fmt.Sprintf("%.0f%%", d.Battery),
			fmt.Sprintf("%.0fm", d.Altitude),
			fmt.Sprintf("%.1f", d.Speed),
			fmt.Sprintf("%.0f", d.SignalStrength),
		})
	}
	m.table.SetRows(rows)
}

func statusCell(status string) string {
	switch status {
	case model.StatusActive, model.StatusMission:
		return colorGreen + status + colorReset
	case model.StatusWarning, model.StatusCalibrating:
		return colorYellow + status + colorReset
	case model.StatusError, model.StatusOffline:
		return colorRed + status + colorReset
	default:
		return status
	}
}

func (m *Model) updateViewportHeight() {
	h := m.height - m.table.Height() - 5
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
}

func (m *Model) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m Model) View() string {
	dot := okDot
	if !m.connected {
		dot = downDot
	}
	header := fmt.Sprintf("%s %s  %s",
		dot,
		titleStyle.Render("fleetops watch"),
		statStyle.Render(fmt.Sprintf("drones=%d samples=%d alerts=%d", len(m.drones), m.samples, m.alerts)))
	divider := strings.Repeat("─", max(m.vp.Width, 1))
	sections := []string{
		header,
		divider,
		m.table.View(),
		divider,
		"Alerts:",
		m.vp.View(),
		statStyle.Render("q quit · w wrap · s autoscroll"),
	}
	return strings.Join(sections, "\n")
}
