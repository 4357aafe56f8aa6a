// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Stats holds session counters for display.
type Stats struct {
	Evaluated int64
	Successes int64
	Skipped   int64
	Errors    int64
	Profit    decimal.Decimal
}

// Observe counts one loop outcome.
func (s *Stats) Observe(status string, profit decimal.Decimal) {
	s.Evaluated++
	switch status {
	case "success":
		s.Successes++
		s.Profit = s.Profit.Add(profit)
	case "error":
		s.Errors++
	default:
		s.Skipped++
	}
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update replaces the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	rate := float64(0)
	if s.stats.Evaluated > 0 {
		rate = float64(s.stats.Successes) / float64(s.stats.Evaluated) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("SESSION") + "\n" +
		fmt.Sprintf("Evaluated: %s  │  Executed: %s (%.1f%%)  │  Skipped: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Evaluated)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Successes)),
			rate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Skipped)),
		) +
		fmt.Sprintf("Errors: %s  │  Estimated profit: %s",
			errorsDisplay,
			valueStyle.Render("$"+s.stats.Profit.StringFixed(2)),
		)
}
