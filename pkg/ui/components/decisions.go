// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// DecisionRow is one pair handled by the loop.
type DecisionRow struct {
	Time      string
	Pair      string
	Direction string
	Percent   decimal.Decimal
	Profit    decimal.Decimal
	Status    string // success, skipped, error
	Reason    string
}

// DecisionsComponent renders the latest loop decisions, newest first.
type DecisionsComponent struct {
	rows    []DecisionRow
	maxRows int
	visible int
	offset  int
}

// NewDecisionsComponent creates a decisions list keeping maxRows rows.
func NewDecisionsComponent(maxRows, visible int) *DecisionsComponent {
	return &DecisionsComponent{
		rows:    make([]DecisionRow, 0, maxRows),
		maxRows: maxRows,
		visible: visible,
	}
}

// Add prepends a row.
func (d *DecisionsComponent) Add(row DecisionRow) {
	d.rows = append([]DecisionRow{row}, d.rows...)
	if len(d.rows) > d.maxRows {
		d.rows = d.rows[:d.maxRows]
	}
}

// Len returns the number of stored rows.
func (d *DecisionsComponent) Len() int { return len(d.rows) }

// Clear drops all rows.
func (d *DecisionsComponent) Clear() {
	d.rows = d.rows[:0]
	d.offset = 0
}

func (d *DecisionsComponent) ScrollUp() {
	if d.offset > 0 {
		d.offset--
	}
}

func (d *DecisionsComponent) ScrollDown() {
	if d.offset+d.visible < len(d.rows) {
		d.offset++
	}
}

// View renders the decisions table.
func (d *DecisionsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	if len(d.rows) == 0 {
		return headerStyle.Render("DECISIONS") + "\n\n" + "No pairs evaluated yet..."
	}

	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	end := d.offset + d.visible
	if end > len(d.rows) {
		end = len(d.rows)
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("DECISIONS (%d-%d of %d)", d.offset+1, end, len(d.rows))))
	sb.WriteString("\n")
	sb.WriteString("┌──────────┬──────────────┬──────────────────────┬─────────┬──────────┬──────────┐\n")
	sb.WriteString("│   Time   │     Pair     │      Direction       │  Diff % │  Profit  │  Status  │\n")
	sb.WriteString("├──────────┼──────────────┼──────────────────────┼─────────┼──────────┼──────────┤\n")

	for _, row := range d.rows[d.offset:end] {
		style := mutedStyle
		switch row.Status {
		case "success":
			style = successStyle
		case "error":
			style = errorStyle
		}
		sb.WriteString(fmt.Sprintf("│ %8s │ %-12s │ %-20s │%8s │%9s │ %s │\n",
			row.Time,
			truncate(row.Pair, 12),
			truncate(row.Direction, 20),
			row.Percent.StringFixed(3),
			"$"+row.Profit.StringFixed(2),
			style.Render(fmt.Sprintf("%-8s", row.Status)),
		))
	}
	sb.WriteString("└──────────┴──────────────┴──────────────────────┴─────────┴──────────┴──────────┘")
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
