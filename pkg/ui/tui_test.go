package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/asset"
)

type fakeController struct {
	started, stopped int
	err              error
}

func (c *fakeController) Start() error { c.started++; return c.err }
func (c *fakeController) Stop()        { c.stopped++ }

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

func TestFirstKeySkipsWelcome(t *testing.T) {
	ctl := &fakeController{}
	m := New(ctl)

	m, cmd := update(t, m, keyPress('s'))
	assert.Equal(t, PhaseStartup, m.phase)
	assert.Nil(t, cmd)
	assert.Zero(t, ctl.started)
}

func TestStartAndStopKeys(t *testing.T) {
	ctl := &fakeController{}
	m := New(ctl)
	m.phase = PhaseDashboard

	m, cmd := update(t, m, keyPress('s'))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, 1, ctl.started)

	_, cmd = update(t, m, keyPress('x'))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, ctl.stopped)
}

func TestStartErrorIsShown(t *testing.T) {
	ctl := &fakeController{err: errors.New("not attached")}
	m := New(ctl)
	m.phase = PhaseDashboard

	_, cmd := update(t, m, keyPress('s'))
	m, _ = update(t, m, cmd())
	require.Len(t, m.errors, 1)
	assert.Contains(t, m.errors[0].Message, "not attached")
}

func TestOutcomesFeedCounters(t *testing.T) {
	m := New(nil)
	m.phase = PhaseDashboard
	pair := pricingDomain.NewPair(asset.USDCe, asset.USDT)

	m, _ = update(t, m, OutcomeMsg{Outcome: domain.Outcome{
		Status:      ledgerDomain.StatusSuccess,
		Opportunity: domain.Opportunity{Found: true, Pair: pair, EstimatedProfit: decimal.NewFromInt(25)},
		Timestamp:   time.Now(),
	}})
	m, _ = update(t, m, OutcomeMsg{Outcome: domain.Outcome{
		Status:      ledgerDomain.StatusSkipped,
		Opportunity: domain.Opportunity{Pair: pair, EstimatedProfit: decimal.NewFromInt(3)},
		Timestamp:   time.Now(),
	}})

	assert.Equal(t, 2, m.decisions.Len())
	assert.EqualValues(t, 2, m.counters.Evaluated)
	assert.EqualValues(t, 1, m.counters.Successes)
	assert.EqualValues(t, 1, m.counters.Skipped)
	assert.Equal(t, "25", m.counters.Profit.String())
}

func TestStateMsgLeavesStartupScreen(t *testing.T) {
	m := New(nil)
	m.phase = PhaseStartup
	assert.Contains(t, m.View(), "Starting up")

	m, _ = update(t, m, StateMsg{Snapshot: domain.Snapshot{
		Run:      domain.RunRunning,
		RunName:  "running",
		Strategy: domain.StrategyDifferential,
		DailyCap: 10,
		StopLoss: 3,
	}})
	view := m.View()
	assert.Contains(t, view, "RUNNING")
	assert.Contains(t, view, "differential")
}

func TestQuit(t *testing.T) {
	m := New(nil)
	m, cmd := update(t, m, keyPress('q'))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
}
