package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRolloverOncePerDay(t *testing.T) {
	day1 := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	s := BotState{CurrentDay: UTCDay(day1), DailyTradeCount: 5}

	for i := 0; i < 10; i++ {
		assert.False(t, s.Rollover(day1.Add(time.Duration(i)*time.Second/10)))
	}
	assert.Equal(t, 5, s.DailyTradeCount)

	day2 := day1.Add(2 * time.Minute)
	assert.True(t, s.Rollover(day2))
	assert.Zero(t, s.DailyTradeCount)

	s.DailyTradeCount = 2
	for i := 0; i < 100; i++ {
		assert.False(t, s.Rollover(day2.Add(time.Duration(i)*time.Minute)))
	}
	assert.Equal(t, 2, s.DailyTradeCount)
}

func TestRolloverUsesUTCDate(t *testing.T) {
	tz := time.FixedZone("UTC-5", -5*3600)
	// 21:00 local on Jun 1 is 02:00 UTC on Jun 2.
	local := time.Date(2024, 6, 1, 21, 0, 0, 0, tz)
	s := BotState{CurrentDay: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	assert.True(t, s.Rollover(local))
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), s.CurrentDay)
}

func TestRecordFailureTripsAtStopLoss(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := BotState{IsRunning: true}

	assert.False(t, s.RecordFailure(now, 10*time.Minute, 3))
	assert.Equal(t, now.Add(10*time.Minute), s.CooldownUntil)
	assert.False(t, s.RecordFailure(now.Add(time.Minute), 10*time.Minute, 3))
	assert.True(t, s.RecordFailure(now.Add(2*time.Minute), 10*time.Minute, 3))

	assert.False(t, s.IsRunning)
	assert.Equal(t, 3, s.FailureCount)
}

func TestCooldownNeverMovesBackwards(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := BotState{IsRunning: true}

	s.RecordFailure(now, 10*time.Minute, 99)
	first := s.CooldownUntil
	s.RecordFailure(now.Add(-time.Minute), 10*time.Minute, 99)

	assert.Equal(t, first, s.CooldownUntil)
	assert.False(t, s.CooldownUntil.Before(now))
}

func TestRecordSuccessResetsFailures(t *testing.T) {
	s := BotState{IsRunning: true, FailureCount: 2, DailyTradeCount: 1}
	s.RecordSuccess()

	assert.Zero(t, s.FailureCount)
	assert.Equal(t, 2, s.DailyTradeCount)
}

func TestRunStateString(t *testing.T) {
	assert.Equal(t, "stopped", RunStopped.String())
	assert.Equal(t, "running", RunRunning.String())
	assert.Equal(t, "draining", RunDraining.String())
}
