// Package ui provides the Bubble Tea dashboard for the flashloan bot.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	"github.com/fd1az/flashloan-bot/pkg/ui/components"
)

// Controller starts and stops the control loop.
type Controller interface {
	Start() error
	Stop()
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseStartup   Phase = "startup"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

var stepOrder = []string{"config", "chain", "ledger", "modules"}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	status    *components.StatusComponent
	stats     *components.StatsComponent
	decisions *components.DecisionsComponent
	ledger    *components.LedgerComponent

	keys     KeyMap
	help     help.Model
	control  Controller
	counters components.Stats

	phase        Phase
	welcomeStart time.Time
	startupTime  time.Time
	startupSteps map[string]*StartupStep

	quitting   bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry // last 3
	logs       []string     // last 5
	snapshot   domain.Snapshot
	haveState  bool
}

// New creates a new TUI model. control may be nil, in which case the start
// and stop keys only log.
func New(control Controller) Model {
	now := time.Now()
	steps := make(map[string]*StartupStep, len(stepOrder))
	names := map[string]string{
		"config":  "Loading configuration",
		"chain":   "Connecting to Polygon",
		"ledger":  "Opening trade ledger",
		"modules": "Starting modules",
	}
	for _, k := range stepOrder {
		steps[k] = &StartupStep{Name: names[k], Status: "pending"}
	}

	return Model{
		status:       components.NewStatusComponent(),
		stats:        components.NewStatsComponent(),
		decisions:    components.NewDecisionsComponent(50, 10),
		ledger:       components.NewLedgerComponent(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		control:      control,
		phase:        PhaseWelcome,
		welcomeStart: now,
		startupTime:  now,
		startupSteps: steps,
		logs:         make([]string, 0, 5),
		errors:       make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) controlCmd(action string) tea.Cmd {
	ctl := m.control
	return func() tea.Msg {
		if ctl == nil {
			return controlResultMsg{action: action, err: fmt.Errorf("no controller attached")}
		}
		if action == "start" {
			return controlResultMsg{action: action, err: ctl.Start()}
		}
		ctl.Stop()
		return controlResultMsg{action: action}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			m.enterStartup()
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Start):
			return m, m.controlCmd("start")
		case key.Matches(msg, m.keys.Stop):
			return m, m.controlCmd("stop")
		case key.Matches(msg, m.keys.Clear):
			m.decisions.Clear()
			m.errors = m.errors[:0]
		case key.Matches(msg, m.keys.Up):
			m.decisions.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.decisions.ScrollDown()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.enterStartup()
		}
		return m, tickCmd()

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}

	case StateMsg:
		m.applySnapshot(msg.Snapshot)

	case OutcomeMsg:
		m.applyOutcome(msg.Outcome)

	case LedgerMsg:
		rows := make([]components.LedgerRow, 0, len(msg.Records))
		for _, r := range msg.Records {
			rows = append(rows, components.LedgerRow{
				Time:   r.Timestamp.Local().Format("15:04:05"),
				Pair:   r.Pair,
				Status: string(r.Status),
				Profit: r.ProfitUSD,
				TxHash: r.TxHash,
			})
		}
		m.ledger.Update(rows)

	case controlResultMsg:
		if msg.err != nil {
			m.addError(fmt.Sprintf("%s: %v", msg.action, msg.err))
		} else {
			m.logs = addLog(m.logs, "info", msg.action+" requested")
		}

	case ErrorMsg:
		if msg.Error != nil {
			m.addError(msg.Error.Error())
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

func (m *Model) enterStartup() {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
}

func (m *Model) applySnapshot(s domain.Snapshot) {
	m.snapshot = s
	m.haveState = true
	m.lastUpdate = time.Now()

	day := "-"
	if !s.State.CurrentDay.IsZero() {
		day = s.State.CurrentDay.Format("2006-01-02")
	}
	m.status.Update(components.BotStatus{
		Run:           s.RunName,
		Strategy:      string(s.Strategy),
		TrainingMode:  s.TrainingMode,
		FailureCount:  s.State.FailureCount,
		StopLoss:      s.StopLoss,
		DailyCount:    s.State.DailyTradeCount,
		DailyCap:      s.DailyCap,
		CurrentDay:    day,
		CooldownUntil: s.State.CooldownUntil,
		LastTick:      s.LastTick,
		LastDenial:    string(s.LastDenial),
	})
}

func (m *Model) applyOutcome(o domain.Outcome) {
	opp := o.Opportunity
	profit := decimal.Zero
	if o.Status == ledgerDomain.StatusSuccess {
		profit = opp.EstimatedProfit
	}
	row := components.DecisionRow{
		Time:    o.Timestamp.Local().Format("15:04:05"),
		Pair:    opp.Pair.String(),
		Percent: opp.Percent,
		Profit:  profit,
		Status:  string(o.Status),
	}
	if opp.Found {
		row.Direction = opp.Direction().String()
	}
	if o.Err != nil {
		row.Reason = o.Err.Error()
		m.addError(fmt.Sprintf("%s: %v", row.Pair, o.Err))
	}
	m.decisions.Add(row)

	m.counters.Observe(string(o.Status), profit)
	m.stats.Update(m.counters)
	m.lastUpdate = time.Now()
}

func (m *Model) addError(msg string) {
	m.errors = append(m.errors, ErrorEntry{Message: msg, Timestamp: time.Now()})
	if len(m.errors) > 3 {
		m.errors = m.errors[len(m.errors)-3:]
	}
	m.logs = addLog(m.logs, "error", msg)
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04:05"), level, message)
	logs = append(logs, line)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		if !m.haveState {
			return m.renderStartupScreen()
		}
	}

	now := time.Now()
	var b strings.Builder

	b.WriteString(TitleStyle.Render(" ⚡ Flashloan Arbitrage Bot "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar(now))
	b.WriteString("\n\n")

	leftCol := m.status.View(now) + "\n\n" + m.stats.View()
	rightCol := m.decisions.View()

	if m.width > 120 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		w := m.width - 4
		if w < 40 {
			w = 40
		}
		b.WriteString(BoxStyle.Width(w).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(w).Render(rightCol))
	}
	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(m.ledger.View()))
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, e := range m.errors {
			ago := now.Sub(e.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", e.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderStatusBar(now time.Time) string {
	var parts []string

	switch m.snapshot.Run {
	case domain.RunRunning:
		parts = append(parts, StatusRunning.Render("● RUNNING"))
	case domain.RunDraining:
		parts = append(parts, StatusDraining.Render("◐ STOPPING"))
	default:
		parts = append(parts, StatusStopped.Render("○ STOPPED"))
	}

	if m.snapshot.TrainingMode {
		parts = append(parts, lipgloss.NewStyle().Foreground(ColorWarning).Render("TRAINING"))
	}
	parts = append(parts, fmt.Sprintf("Strategy: %s", m.snapshot.Strategy))

	if !m.lastUpdate.IsZero() {
		ago := now.Sub(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}
	return strings.Join(parts, "  │  ")
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	dots := strings.Repeat(".", int(time.Since(m.welcomeStart).Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	logo := `
   ███████╗██╗      █████╗ ███████╗██╗  ██╗
   ██╔════╝██║     ██╔══██╗██╔════╝██║  ██║
   █████╗  ██║     ███████║███████╗███████║
   ██╔══╝  ██║     ██╔══██║╚════██║██╔══██║
   ██║     ███████╗██║  ██║███████║██║  ██║
   ╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render("        F L A S H L O A N   A R B I T R A G E"))
	sb.WriteString("\n\n\n")
	sb.WriteString(goldStyle.Render("            Borrow. Swap. Repay. Keep the spread."))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("                  Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("            Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	successStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	connectingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	failedStyle := lipgloss.NewStyle().Foreground(ColorDanger)

	var sb strings.Builder
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  ⚡ Flashloan Arbitrage Bot"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	for _, k := range stepOrder {
		step := m.startupSteps[k]

		var icon, text string
		var style lipgloss.Style
		switch step.Status {
		case "connected", "done":
			icon, text, style = "✓", "Ready", successStyle
		case "connecting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			icon = spinners[int(time.Since(m.startupTime).Milliseconds()/200)%len(spinners)]
			text, style = "Connecting...", connectingStyle
		case "failed":
			icon, text, style = "✗", "Failed", failedStyle
		default:
			icon, text, style = "○", "Pending", MutedValue
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n", style.Render(icon), MutedValue.Render(step.Name), style.Render(text)))
	}

	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", time.Since(m.startupTime).Round(time.Second))))
	sb.WriteString("\n")
	return sb.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// NewProgram creates the dashboard program and makes it the target of Send.
func NewProgram(control Controller) *tea.Program {
	Program = tea.NewProgram(New(control), tea.WithAltScreen())
	return Program
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
