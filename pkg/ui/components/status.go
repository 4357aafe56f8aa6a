// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// BotStatus is the loop state shown in the status panel.
type BotStatus struct {
	Run           string
	Strategy      string
	TrainingMode  bool
	FailureCount  int
	StopLoss      int
	DailyCount    int
	DailyCap      int
	CurrentDay    string
	CooldownUntil time.Time
	LastTick      time.Time
	LastDenial    string
}

// StatusComponent renders the loop state.
type StatusComponent struct {
	status BotStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{status: BotStatus{Run: "stopped"}}
}

// Update replaces the status.
func (s *StatusComponent) Update(status BotStatus) {
	s.status = status
}

// View renders the status panel relative to now.
func (s *StatusComponent) View(now time.Time) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	amber := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	st := s.status
	runStyle := red
	icon := "○"
	switch st.Run {
	case "running":
		runStyle, icon = green, "●"
	case "draining":
		runStyle, icon = amber, "◐"
	}

	mode := st.Strategy
	if st.TrainingMode {
		mode += " (training)"
	}

	var sb strings.Builder
	sb.WriteString(header.Render("BOT"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("├─ State:     %s\n", runStyle.Render(icon+" "+st.Run)))
	sb.WriteString(fmt.Sprintf("├─ Strategy:  %s\n", mode))

	failStyle := muted
	if st.FailureCount > 0 {
		failStyle = amber
	}
	sb.WriteString(fmt.Sprintf("├─ Failures:  %s\n", failStyle.Render(fmt.Sprintf("%d / %d", st.FailureCount, st.StopLoss))))
	sb.WriteString(fmt.Sprintf("├─ Trades:    %d / %d (%s)\n", st.DailyCount, st.DailyCap, st.CurrentDay))

	if now.Before(st.CooldownUntil) {
		left := st.CooldownUntil.Sub(now).Round(time.Second)
		sb.WriteString(fmt.Sprintf("├─ Cooldown:  %s\n", amber.Render(left.String()+" left")))
	} else {
		sb.WriteString(fmt.Sprintf("├─ Cooldown:  %s\n", muted.Render("none")))
	}

	if st.LastDenial != "" {
		sb.WriteString(fmt.Sprintf("├─ Gate:      %s\n", amber.Render(st.LastDenial)))
	} else {
		sb.WriteString(fmt.Sprintf("├─ Gate:      %s\n", muted.Render("open")))
	}

	last := "never"
	if !st.LastTick.IsZero() {
		last = now.Sub(st.LastTick).Round(time.Second).String() + " ago"
	}
	sb.WriteString(fmt.Sprintf("└─ Last tick: %s", muted.Render(last)))
	return sb.String()
}
