// Package domain contains the core domain types for the arbitrage context.
package domain

import "time"

// RunState is the control loop lifecycle: Stopped -> Running -> Draining ->
// Stopped. Draining lasts from a stop request until the loop notices it.
type RunState int32

const (
	RunStopped RunState = iota
	RunRunning
	RunDraining
)

func (s RunState) String() string {
	switch s {
	case RunStopped:
		return "stopped"
	case RunRunning:
		return "running"
	case RunDraining:
		return "draining"
	}
	return "unknown"
}

// BotState is the mutable counter set owned by the control loop.
type BotState struct {
	IsRunning       bool      `json:"is_running"`
	FailureCount    int       `json:"failure_count"`
	DailyTradeCount int       `json:"daily_trade_count"`
	CurrentDay      time.Time `json:"current_day"`
	CooldownUntil   time.Time `json:"cooldown_until"`
}

// UTCDay truncates t to midnight UTC.
func UTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Rollover resets the daily counter when now falls on a different UTC date
// than CurrentDay. It reports whether a reset happened.
func (s *BotState) Rollover(now time.Time) bool {
	today := UTCDay(now)
	if today.Equal(s.CurrentDay) {
		return false
	}
	s.CurrentDay = today
	s.DailyTradeCount = 0
	return true
}

// RecordFailure counts a failed evaluation and arms the cooldown. It returns
// true when the failure count reached stopLoss and the bot was stopped.
func (s *BotState) RecordFailure(now time.Time, cooldown time.Duration, stopLoss int) bool {
	s.FailureCount++
	if until := now.Add(cooldown); until.After(s.CooldownUntil) {
		s.CooldownUntil = until
	}
	if s.FailureCount >= stopLoss {
		s.IsRunning = false
		return true
	}
	return false
}

// RecordSuccess counts a submitted trade.
func (s *BotState) RecordSuccess() {
	s.FailureCount = 0
	s.DailyTradeCount++
}

// InCooldown reports whether now is before CooldownUntil.
func (s BotState) InCooldown(now time.Time) bool {
	return now.Before(s.CooldownUntil)
}

// Snapshot is a point-in-time copy of the loop for status surfaces.
type Snapshot struct {
	State        BotState   `json:"state"`
	Run          RunState   `json:"-"`
	RunName      string     `json:"run_state"`
	Strategy     Strategy   `json:"strategy"`
	TrainingMode bool       `json:"training_mode"`
	DailyCap     int        `json:"daily_trade_cap"`
	StopLoss     int        `json:"stop_loss_count"`
	LastTick     time.Time  `json:"last_tick"`
	LastDenial   DenyReason `json:"last_denial,omitempty"`
}
