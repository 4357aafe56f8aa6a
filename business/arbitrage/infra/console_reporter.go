// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	mu      sync.Mutex
	out     io.Writer
	lastRun domain.RunState
	started bool
}

// NewConsoleReporter creates a ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return NewConsoleReporterTo(os.Stdout)
}

// NewConsoleReporterTo creates a ConsoleReporter writing to w.
func NewConsoleReporterTo(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: w}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "Flashloan Bot Attached")
	fmt.Fprintln(r.out, "======================")
	return nil
}

// Report prints executed trades and errors in full; skips get one line.
func (r *ConsoleReporter) Report(out domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	opp := out.Opportunity
	ts := out.Timestamp.Format("15:04:05")

	switch out.Status {
	case ledgerDomain.StatusSkipped:
		fmt.Fprintf(r.out, "[%s] %-12s skip  diff %s%%\n", ts, opp.Pair.String(), opp.Percent.StringFixed(4))
		return
	case ledgerDomain.StatusError:
		fmt.Fprintf(r.out, "[%s] %-12s ERROR %v\n", ts, opp.Pair.String(), out.Err)
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "FLASHLOAN SUBMITTED")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Tick:           %s\n", out.TickID)
	fmt.Fprintf(r.out, "Timestamp:      %s\n", out.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Pair:           %s\n", opp.Pair.String())
	fmt.Fprintf(r.out, "Strategy:       %s\n", opp.Strategy)
	fmt.Fprintf(r.out, "Direction:      %s\n", opp.Direction().String())
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "  Amount:         $%s\n", opp.Amount.StringFixed(2))
	fmt.Fprintf(r.out, "  Differential:   %s%%\n", opp.Percent.StringFixed(4))
	fmt.Fprintf(r.out, "  Est. profit:    $%s\n", opp.EstimatedProfit.StringFixed(2))
	fmt.Fprintf(r.out, "  Tx:             %s\n", out.TxHash)
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdateState prints run state transitions.
func (r *ConsoleReporter) UpdateState(snap domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started && snap.Run == r.lastRun {
		return
	}
	r.started = true
	r.lastRun = snap.Run

	fmt.Fprintf(r.out, "[%s] bot %s (failures %d/%d, trades today %d/%d)\n",
		time.Now().Format("15:04:05"), snap.RunName,
		snap.State.FailureCount, snap.StopLoss,
		snap.State.DailyTradeCount, snap.DailyCap)
}

// Stop prints the footer.
func (r *ConsoleReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Flashloan Bot Detached")
	return nil
}
