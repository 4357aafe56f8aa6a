package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-bot/business/ledger/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

const tracerName = "github.com/fd1az/flashloan-bot/business/ledger/app"

// Query limits for Recent.
const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 500
)

// LedgerService is the single entry point to the trade ledger. The control
// loop is its only writer.
type LedgerService struct {
	store  Store
	recent RecentCache
	log    logger.LoggerInterface
	tracer trace.Tracer
}

// NewLedgerService creates a ledger service. recent may be nil.
func NewLedgerService(store Store, recent RecentCache, log logger.LoggerInterface) *LedgerService {
	return &LedgerService{
		store:  store,
		recent: recent,
		log:    log,
		tracer: otel.Tracer(tracerName),
	}
}

// Append writes one record. Failures come back as LEDGER_WRITE_FAILED.
func (s *LedgerService) Append(ctx context.Context, rec domain.TradeRecord) (domain.TradeRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.append",
		trace.WithAttributes(
			attribute.String("pair", rec.Pair),
			attribute.String("status", string(rec.Status)),
		),
	)
	defer span.End()

	if !rec.Status.Valid() {
		err := apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("unknown trade status "+string(rec.Status)))
		span.SetStatus(codes.Error, err.Error())
		return rec, err
	}

	stored, err := s.store.Append(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return rec, apperror.Wrap(err, apperror.CodeLedgerWriteFailed, "append trade record")
	}

	if s.recent != nil {
		if err := s.recent.Push(ctx, stored); err != nil {
			s.log.Warn(ctx, "recent cache push failed", "error", err)
		}
	}
	return stored, nil
}

// Recent returns the newest records, newest first. limit is clamped to
// [1, MaxRecentLimit]; zero or negative means DefaultRecentLimit.
func (s *LedgerService) Recent(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	limit = ClampLimit(limit)

	if s.recent != nil {
		recs, err := s.recent.Recent(ctx, limit)
		if err == nil && len(recs) == limit {
			return recs, nil
		}
		if err != nil {
			s.log.Debug(ctx, "recent cache miss", "error", err)
		}
	}

	recs, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeLedgerReadFailed, "recent trade records")
	}
	return recs, nil
}

// Summary aggregates records written at or after since.
func (s *LedgerService) Summary(ctx context.Context, since time.Time) (domain.Summary, error) {
	sum, err := s.store.Summary(ctx, since)
	if err != nil {
		return domain.Summary{}, apperror.Wrap(err, apperror.CodeLedgerReadFailed, "ledger summary")
	}
	sum.Since = since
	return sum, nil
}

// RankPairs ranks pairs by profit over records written at or after since.
func (s *LedgerService) RankPairs(ctx context.Context, since time.Time) ([]domain.PairRank, error) {
	ranks, err := s.store.RankPairs(ctx, since)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeLedgerReadFailed, "rank pairs")
	}
	return ranks, nil
}

// RecordSample stores a training sample.
func (s *LedgerService) RecordSample(ctx context.Context, sample domain.TrainingSample) error {
	if err := s.store.RecordSample(ctx, sample); err != nil {
		return apperror.Wrap(err, apperror.CodeLedgerWriteFailed, "record training sample")
	}
	return nil
}

// Ping checks the backing store.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the backing store when it holds connections.
func (s *LedgerService) Close() {
	if c, ok := s.store.(interface{ Close() }); ok {
		c.Close()
	}
}

// ClampLimit applies the Recent limit bounds.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	}
	return limit
}
