// Package ui provides the Bubble Tea dashboard for the flashloan bot.
package ui

import (
	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
)

// StateMsg carries a copy of the loop state.
type StateMsg struct {
	Snapshot domain.Snapshot
}

// OutcomeMsg is sent after the loop handled one pair.
type OutcomeMsg struct {
	Outcome domain.Outcome
}

// LedgerMsg carries the most recent ledger rows, newest first.
type LedgerMsg struct {
	Records []ledgerDomain.TradeRecord
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step   string
	Status string // "connecting", "connected", "failed"
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// controlResultMsg reports the result of a start or stop keypress.
type controlResultMsg struct {
	action string
	err    error
}
