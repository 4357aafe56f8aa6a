package domain

import "time"

// DenyReason names the gate check that refused an iteration.
type DenyReason string

const (
	DenyNone       DenyReason = ""
	DenyStopped    DenyReason = "stopped"
	DenyInactive   DenyReason = "inactive"
	DenyCapReached DenyReason = "cap_reached"
	DenyCooldown   DenyReason = "cooldown"
)

// Decision is the gate verdict.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow admits the iteration.
func Allow() Decision { return Decision{Allowed: true} }

// Deny refuses the iteration for reason.
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Evaluate runs the gate checks in order; the first failing check wins.
// The day rollover in step two mutates state.
func Evaluate(state *BotState, policy Policy, now time.Time) Decision {
	if !state.IsRunning {
		return Deny(DenyStopped)
	}

	state.Rollover(now)

	if !policy.ActiveHours.Contains(now.UTC().Hour()) {
		return Deny(DenyInactive)
	}
	if state.DailyTradeCount >= policy.DailyTradeCap {
		return Deny(DenyCapReached)
	}
	if state.InCooldown(now) {
		return Deny(DenyCooldown)
	}
	return Allow()
}

// Backoff maps deny reasons to loop sleep intervals.
type Backoff struct {
	Coarse time.Duration // inactive, cap reached
	Fine   time.Duration // cooldown
}

// DefaultBackoff is 60s coarse, 1s fine.
func DefaultBackoff() Backoff {
	return Backoff{Coarse: time.Minute, Fine: time.Second}
}

// For returns the sleep after a Deny(reason).
func (b Backoff) For(reason DenyReason) time.Duration {
	switch reason {
	case DenyInactive, DenyCapReached:
		return b.Coarse
	case DenyCooldown:
		return b.Fine
	}
	return 0
}
