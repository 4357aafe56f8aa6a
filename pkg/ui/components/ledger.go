package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// LedgerRow is one persisted trade record.
type LedgerRow struct {
	Time   string
	Pair   string
	Status string
	Profit decimal.Decimal
	TxHash string
}

// LedgerComponent renders the recent ledger rows.
type LedgerComponent struct {
	rows []LedgerRow
}

func NewLedgerComponent() *LedgerComponent {
	return &LedgerComponent{}
}

// Update replaces the rows.
func (l *LedgerComponent) Update(rows []LedgerRow) {
	l.rows = rows
}

// View renders the ledger panel.
func (l *LedgerComponent) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(header.Render("LEDGER"))
	sb.WriteString("\n\n")
	if len(l.rows) == 0 {
		sb.WriteString(muted.Render("  No records yet"))
		return sb.String()
	}
	for _, r := range l.rows {
		tx := r.TxHash
		if len(tx) > 12 {
			tx = tx[:10] + "…"
		}
		sb.WriteString(fmt.Sprintf("  %s %-12s %-8s $%s %s\n", r.Time, truncate(r.Pair, 12), r.Status, r.Profit.StringFixed(2), muted.Render(tx)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
