package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/flashloan-bot/business/arbitrage/domain"
	blockchainDomain "github.com/fd1az/flashloan-bot/business/blockchain/domain"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	predictionDomain "github.com/fd1az/flashloan-bot/business/prediction/domain"
	pricingDomain "github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apm"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// PairLister supplies the pairs swept on every tick.
type PairLister interface {
	Pairs(ctx context.Context) ([]pricingDomain.Pair, error)
}

// BotConfig holds the immutable run parameters of the control loop.
type BotConfig struct {
	TrainingMode bool
	Amount       decimal.Decimal
	Slippage     float64
	FeeTier      uint32
	RunInterval  time.Duration
	CallTimeout  time.Duration
	Backoff      domain.Backoff
	Policy       domain.Policy
	AutoStart    bool
}

// BotDeps are the capabilities the loop drives. Executor may be nil in
// training mode; Features, Alerter and Reporter are optional.
type BotDeps struct {
	Pairs    PairLister
	Detector Detector
	Executor Executor
	Ledger   Ledger
	Features FeatureSource
	Alerter  Alerter
	Reporter Reporter
	Clock    Clock
	Log      logger.LoggerInterface
}

// Bot is the control loop. One goroutine runs the loop; Start, Stop and the
// status accessors are safe to call from any goroutine.
type Bot struct {
	cfg      BotConfig
	pairs    PairLister
	detector Detector
	executor Executor
	ledger   Ledger
	features FeatureSource
	alerter  Alerter
	reporter Reporter
	clock    Clock
	log      logger.LoggerInterface
	tracer   apm.Tracer
	metrics  *botMetrics

	mu         sync.Mutex
	state      domain.BotState
	run        domain.RunState
	base       context.Context
	stop       chan struct{}
	done       chan struct{}
	lastTick   time.Time
	lastDenial domain.DenyReason
}

// NewBot validates the wiring and creates a stopped bot.
func NewBot(cfg BotConfig, deps BotDeps) (*Bot, error) {
	switch {
	case deps.Pairs == nil:
		return nil, apperror.Config("bot requires a pair source")
	case deps.Detector == nil:
		return nil, apperror.Config("bot requires a detector")
	case deps.Ledger == nil:
		return nil, apperror.Config("bot requires a ledger")
	case deps.Executor == nil && !cfg.TrainingMode:
		return nil, apperror.Config("bot requires an executor outside training mode")
	case cfg.RunInterval <= 0:
		return nil, apperror.Config("run interval must be positive")
	case cfg.Policy.StopLossCount <= 0:
		return nil, apperror.Config("stop loss count must be positive")
	}

	m, err := newBotMetrics()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	clock := deps.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}

	return &Bot{
		cfg:      cfg,
		pairs:    deps.Pairs,
		detector: deps.Detector,
		executor: deps.Executor,
		ledger:   deps.Ledger,
		features: deps.Features,
		alerter:  deps.Alerter,
		reporter: deps.Reporter,
		clock:    clock,
		log:      log,
		tracer:   apm.NewTracer(tracerName),
		metrics:  m,
	}, nil
}

// Run attaches the bot to ctx, starts the loop when AutoStart is set and
// blocks until ctx is done. The loop is drained before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.base = ctx
	b.mu.Unlock()

	if b.reporter != nil {
		if err := b.reporter.Start(ctx); err != nil {
			return err
		}
		defer b.reporter.Stop()
	}

	b.log.Info(ctx, "bot attached",
		"strategy", b.detector.Strategy(),
		"training_mode", b.cfg.TrainingMode,
		"active_hours", b.cfg.Policy.ActiveHours.String(),
		"daily_trade_cap", b.cfg.Policy.DailyTradeCap,
		"stop_loss", b.cfg.Policy.StopLossCount,
	)

	if b.cfg.AutoStart {
		if err := b.Start(); err != nil {
			return err
		}
	}

	<-ctx.Done()
	b.Stop()
	b.Wait()
	return nil
}

// Start launches the loop. It is a no-op while running; while draining it
// cancels the pending stop instead of starting a second loop. Starting resets
// the failure count but keeps any cooldown.
func (b *Bot) Start() error {
	b.mu.Lock()

	if b.base == nil {
		b.mu.Unlock()
		return apperror.New(apperror.CodeInvalidState, apperror.WithContext("bot is not attached to a run context"))
	}

	switch b.run {
	case domain.RunRunning:
		b.mu.Unlock()
		return nil
	case domain.RunDraining:
		b.run = domain.RunRunning
		b.state.IsRunning = true
		b.state.FailureCount = 0
		b.stop = make(chan struct{})
		b.mu.Unlock()
		b.log.Info(b.base, "pending stop cancelled")
		b.publish()
		return nil
	}

	b.run = domain.RunRunning
	b.state.IsRunning = true
	b.state.FailureCount = 0
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.loop(b.base, b.done)
	b.mu.Unlock()

	b.publish()
	return nil
}

// Stop requests a cooperative stop. It is a no-op unless running.
func (b *Bot) Stop() {
	b.mu.Lock()
	if b.run != domain.RunRunning {
		b.mu.Unlock()
		return
	}
	b.run = domain.RunDraining
	b.state.IsRunning = false
	close(b.stop)
	b.mu.Unlock()

	b.publish()
}

// Wait blocks until the current loop goroutine has exited.
func (b *Bot) Wait() {
	b.mu.Lock()
	done := b.done
	b.mu.Unlock()
	if done != nil {
		<-done
	}
}

// IsRunning reports whether the bot is admitted to trade.
func (b *Bot) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.IsRunning
}

// RunState returns the loop lifecycle state.
func (b *Bot) RunState() domain.RunState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.run
}

// Snapshot copies the loop state.
func (b *Bot) Snapshot() domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return domain.Snapshot{
		State:        b.state,
		Run:          b.run,
		RunName:      b.run.String(),
		Strategy:     b.detector.Strategy(),
		TrainingMode: b.cfg.TrainingMode,
		DailyCap:     b.cfg.Policy.DailyTradeCap,
		StopLoss:     b.cfg.Policy.StopLossCount,
		LastTick:     b.lastTick,
		LastDenial:   b.lastDenial,
	}
}

func (b *Bot) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	b.log.Info(ctx, "control loop started")

	for {
		b.mu.Lock()
		if ctx.Err() != nil || b.run != domain.RunRunning {
			b.run = domain.RunStopped
			b.state.IsRunning = false
			b.mu.Unlock()
			b.publish()
			b.log.Info(ctx, "control loop stopped")
			return
		}
		stop := b.stop
		b.mu.Unlock()

		wait := b.tick(ctx)
		b.sleep(ctx, stop, wait)
	}
}

// sleep waits d, waking early on a stop request or cancellation.
func (b *Bot) sleep(ctx context.Context, stop <-chan struct{}, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-b.clock.After(d):
	case <-stop:
	case <-ctx.Done():
	}
}

// tick runs one iteration and returns how long to sleep before the next.
func (b *Bot) tick(ctx context.Context) time.Duration {
	now := b.clock.Now()
	tick := domain.Tick{ID: uuid.NewString(), Started: now}

	ctx, span := b.tracer.StartSpanFromContext(ctx, "arbitrage.tick")
	defer span.End()
	span.SetAttributes(
		attribute.String("tick.id", tick.ID),
		attribute.String("strategy", string(b.detector.Strategy())),
	)
	b.metrics.ticks.Add(ctx, 1)

	b.mu.Lock()
	b.lastTick = now
	b.mu.Unlock()

	if d := b.admit(ctx); !d.Allowed {
		span.SetAttributes(attribute.String("gate.deny", string(d.Reason)))
		b.publish()
		return b.cfg.Backoff.For(d.Reason)
	}

	pairs, err := b.pairs.Pairs(ctx)
	if err != nil {
		span.NoticeError(err)
		b.log.Error(ctx, "loading pairs failed", "error", err)
		b.fail(ctx, err)
		return b.cfg.RunInterval
	}

	// The gate is not consulted again until the next tick. A stop request or
	// a fresh cooldown takes effect there; only a breaker trip ends the sweep.
	memo := &featureMemo{src: b.features, amount: b.cfg.Amount.InexactFloat64(), slippage: b.cfg.Slippage}
	for i, pair := range pairs {
		if b.processPair(ctx, tick, pair, memo) {
			span.SetAttributes(attribute.Int("pairs.skipped", len(pairs)-i-1))
			return 0
		}
	}

	return b.cfg.RunInterval
}

// admit runs the execution gate against the current state.
func (b *Bot) admit(ctx context.Context) domain.Decision {
	b.mu.Lock()
	d := domain.Evaluate(&b.state, b.cfg.Policy, b.clock.Now())
	b.lastDenial = d.Reason
	b.mu.Unlock()

	if !d.Allowed {
		b.metrics.denials.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(d.Reason))))
		b.log.Debug(ctx, "gate denied", "reason", d.Reason)
	}
	return d
}

// processPair evaluates one pair and records the outcome. It reports whether
// a failure on this pair tripped the breaker.
func (b *Bot) processPair(ctx context.Context, tick domain.Tick, pair pricingDomain.Pair, memo *featureMemo) (tripped bool) {
	ctx, span := b.tracer.StartSpanFromContext(ctx, "arbitrage.pair")
	defer span.End()
	span.SetAttributes(attribute.String("pair", pair.String()))

	started := time.Now()
	opp, err := b.detector.Detect(ctx, tick, pair)
	b.metrics.detectDuration.Record(ctx, time.Since(started).Seconds())
	opp.Pair = pair

	out := domain.Outcome{TickID: tick.ID, Opportunity: opp, Timestamp: b.clock.Now()}

	switch {
	case err != nil:
		span.NoticeError(err)
		b.log.Warn(ctx, "detection failed", "pair", pair.String(), "error", err)
		out.Status = ledgerDomain.StatusError
		out.Err = err
		tripped = b.fail(ctx, err)

	case b.cfg.TrainingMode:
		b.recordSample(ctx, opp, memo)
		out.Status = ledgerDomain.StatusSkipped

	case !opp.Found:
		out.Status = ledgerDomain.StatusSkipped

	default:
		b.log.Info(ctx, "opportunity found",
			"pair", pair.String(),
			"percent", opp.Percent.StringFixed(4),
			"direction", opp.Direction().String(),
			"estimated_profit", opp.EstimatedProfit.StringFixed(2),
		)
		sub, err := b.execute(ctx, opp)
		if err != nil {
			span.NoticeError(err)
			b.log.Error(ctx, "execution failed", "pair", pair.String(), "error", err)
			out.Status = ledgerDomain.StatusError
			out.Err = err
			tripped = b.fail(ctx, err)
			break
		}
		out.Status = ledgerDomain.StatusSuccess
		out.TxHash = sub.TxHash.Hex()
		b.succeed(ctx)
	}

	span.SetAttributes(attribute.String("status", string(out.Status)))
	b.record(ctx, out)

	if b.reporter != nil {
		b.reporter.Report(out)
	}
	b.publish()
	return tripped
}

func (b *Bot) execute(ctx context.Context, opp domain.Opportunity) (*blockchainDomain.Submission, error) {
	amountIn, err := asset.ParseDecimal(opp.Pair.Base, opp.Amount)
	if err != nil {
		return nil, apperror.Execution(apperror.CodeExecutionError, "flashloan amount", err)
	}

	if b.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.CallTimeout)
		defer cancel()
	}

	sub, err := b.executor.Execute(ctx, blockchainDomain.FlashloanCall{
		Asset:        opp.Pair.Base.Address(),
		Amount:       amountIn.Raw(),
		Dex:          opp.Dex(),
		Intermediate: opp.Pair.Quote.Address(),
		Fee:          b.cfg.FeeTier,
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeExecutionError, "execute flashloan")
	}
	return sub, nil
}

// fail applies the breaker: count, cool down and stop at the stop loss.
// It reports whether this failure tripped the breaker.
func (b *Bot) fail(ctx context.Context, cause error) bool {
	b.mu.Lock()
	tripped := b.state.RecordFailure(b.clock.Now(), b.cfg.Policy.Cooldown, b.cfg.Policy.StopLossCount)
	count := b.state.FailureCount
	until := b.state.CooldownUntil
	if tripped && b.run == domain.RunRunning {
		b.run = domain.RunDraining
		close(b.stop)
	}
	b.mu.Unlock()

	b.metrics.failures.Record(ctx, int64(count))
	b.log.Warn(ctx, "failure recorded", "failures", count, "cooldown_until", until)

	if !tripped {
		return false
	}

	trip := apperror.New(apperror.CodeCircuitBreakerTripped,
		apperror.WithCause(cause),
		apperror.WithContext(fmt.Sprintf("%d consecutive failures", count)))
	b.log.Error(ctx, "circuit breaker tripped, bot stopped", "error", trip)
	b.alert(ctx, "Circuit breaker tripped",
		fmt.Sprintf("Bot stopped after %d consecutive failures. Last error: %s. Restart required.", count, apperror.Describe(cause)))
	return true
}

func (b *Bot) succeed(ctx context.Context) {
	b.mu.Lock()
	b.state.RecordSuccess()
	b.mu.Unlock()
	b.metrics.failures.Record(ctx, 0)
}

func (b *Bot) record(ctx context.Context, out domain.Outcome) {
	rec := ledgerDomain.TradeRecord{
		Pair:      out.Opportunity.Pair.String(),
		AmountUSD: b.cfg.Amount,
		ProfitUSD: decimal.Zero,
		Status:    out.Status,
		TxHash:    out.TxHash,
	}
	switch {
	case out.Status == ledgerDomain.StatusSuccess:
		rec.ProfitUSD = out.Opportunity.EstimatedProfit
	case out.Err != nil:
		rec.Reason = apperror.Describe(out.Err)
	case b.cfg.TrainingMode && out.Opportunity.Found:
		rec.Reason = "training"
	}

	b.metrics.trades.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(out.Status))))

	if _, err := b.ledger.Append(ctx, rec); err != nil {
		b.ledgerFailed(ctx, err)
	}
}

func (b *Bot) recordSample(ctx context.Context, opp domain.Opportunity, memo *featureMemo) {
	fv := opp.Features
	if fv == nil {
		fv = memo.get(ctx)
	}

	err := b.ledger.RecordSample(ctx, ledgerDomain.TrainingSample{
		Pair:       opp.Pair.String(),
		Strategy:   string(opp.Strategy),
		Amount:     fv.Amount,
		Slippage:   fv.Slippage,
		GasPrice:   fv.GasGwei,
		Volatility: fv.Volatility,
		Profit:     opp.Percent.InexactFloat64(),
		Found:      opp.Found,
	})
	if err != nil {
		b.ledgerFailed(ctx, err)
	}
}

// ledgerFailed logs and alerts; ledger errors never change trading state.
func (b *Bot) ledgerFailed(ctx context.Context, err error) {
	b.log.Error(ctx, "ledger write failed", "error", err)
	b.alert(ctx, "Ledger write failed", apperror.Describe(err))
}

func (b *Bot) alert(ctx context.Context, title, message string) {
	if b.alerter != nil {
		b.alerter.Notify(ctx, title, message)
	}
}

func (b *Bot) publish() {
	if b.reporter != nil {
		b.reporter.UpdateState(b.Snapshot())
	}
}

// featureMemo collects training features at most once per tick.
type featureMemo struct {
	src      FeatureSource
	amount   float64
	slippage float64
	fv       *predictionDomain.FeatureVector
}

func (m *featureMemo) get(ctx context.Context) *predictionDomain.FeatureVector {
	if m.fv != nil {
		return m.fv
	}
	fv := predictionDomain.FeatureVector{Amount: m.amount, Slippage: m.slippage}
	if m.src != nil {
		fv = m.src.Features(ctx)
	}
	m.fv = &fv
	return m.fv
}
