package infra

import (
	"context"
	"sync"
	"time"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	"github.com/fd1az/flashloan-bot/pkg/ui"
)

// RecentSource lists the newest ledger records.
type RecentSource interface {
	Recent(ctx context.Context, limit int) ([]ledgerDomain.TradeRecord, error)
}

// TUIReporter forwards loop activity to the Bubble Tea dashboard.
type TUIReporter struct {
	send    func(msg any)
	recent  RecentSource
	refresh time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTUIReporter creates a TUIReporter. recent may be nil.
func NewTUIReporter(recent RecentSource) *TUIReporter {
	return &TUIReporter{
		send:    func(msg any) { ui.Send(msg) },
		recent:  recent,
		refresh: 5 * time.Second,
	}
}

// Start begins refreshing the ledger panel.
func (r *TUIReporter) Start(ctx context.Context) error {
	if r.recent == nil {
		return nil
	}
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.refresh)
		defer ticker.Stop()
		for {
			r.pushLedger(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return nil
}

func (r *TUIReporter) pushLedger(ctx context.Context) {
	recs, err := r.recent.Recent(ctx, 8)
	if err != nil {
		if ctx.Err() == nil {
			r.send(ui.ErrorMsg{Error: err})
		}
		return
	}
	r.send(ui.LedgerMsg{Records: recs})
}

// Report sends one outcome to the dashboard.
func (r *TUIReporter) Report(out domain.Outcome) {
	r.send(ui.OutcomeMsg{Outcome: out})
}

// UpdateState sends the loop state to the dashboard.
func (r *TUIReporter) UpdateState(snap domain.Snapshot) {
	r.send(ui.StateMsg{Snapshot: snap})
}

// Stop ends the ledger refresh.
func (r *TUIReporter) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	return nil
}
