package arbitrage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fd1az/flashloan-bot/internal/config"
)

func TestBotConfigFromConfig(t *testing.T) {
	cfg := &config.Config{Bot: config.BotConfig{
		FlashloanAmount:    "5000",
		MaxSlippagePercent: 0.5,
		FeeTier:            3000,
		RunIntervalSeconds: 12,
		StopLossCount:      3,
		DailyTradeCap:      10,
		CooldownMinutes:    10,
		ActiveHours:        "22-6",
		CooldownBackoff:    2 * time.Second,
	}}

	bc := BotConfig(cfg)

	assert.Equal(t, "5000", bc.Amount.String())
	assert.Equal(t, uint32(3000), bc.FeeTier)
	assert.Equal(t, 12*time.Second, bc.RunInterval)
	assert.Equal(t, 10*time.Minute, bc.Policy.Cooldown)
	assert.Equal(t, time.Minute, bc.Backoff.Coarse)
	assert.Equal(t, 2*time.Second, bc.Backoff.Fine)
	assert.True(t, bc.Policy.ActiveHours.Contains(23))
	assert.False(t, bc.Policy.ActiveHours.Contains(12))
}
