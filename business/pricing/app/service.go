package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// PricingService quotes a pair on the two configured venues and reports the
// differential between them.
type PricingService struct {
	provider QuoteProvider
	pairs    PairSource
	venues   [2]domain.Venue
	timeout  time.Duration
	logger   logger.LoggerInterface
}

// NewPricingService creates a new PricingService. Exactly two venues are
// compared; extra venues are ignored.
func NewPricingService(provider QuoteProvider, pairs PairSource, venues []domain.Venue, timeout time.Duration, log logger.LoggerInterface) (*PricingService, error) {
	if len(venues) < 2 {
		return nil, apperror.Config(fmt.Sprintf("pricing needs two venues, got %d", len(venues)))
	}
	return &PricingService{
		provider: provider,
		pairs:    pairs,
		venues:   [2]domain.Venue{venues[0], venues[1]},
		timeout:  timeout,
		logger:   log,
	}, nil
}

// Venues returns the two compared venues in configuration order.
func (s *PricingService) Venues() [2]domain.Venue {
	return s.venues
}

// Pairs returns the pairs to scan this iteration.
func (s *PricingService) Pairs(ctx context.Context) ([]domain.Pair, error) {
	return s.pairs.Pairs(ctx)
}

// Differential quotes the pair on both venues, one after the other, and
// orders the results into cheap and expensive legs.
func (s *PricingService) Differential(ctx context.Context, pair domain.Pair, amount asset.Amount) (domain.Differential, error) {
	first, err := s.quote(ctx, pair, amount, s.venues[0])
	if err != nil {
		return domain.Differential{}, err
	}
	second, err := s.quote(ctx, pair, amount, s.venues[1])
	if err != nil {
		return domain.Differential{}, err
	}

	d := domain.CompareQuotes(first, second)

	s.logger.Debug(ctx, "differential",
		"pair", pair.String(),
		s.venues[0].Name, first.Converted().String(),
		s.venues[1].Name, second.Converted().String(),
		"diff_percent", d.Percent.StringFixed(4),
		"cheap", d.Cheap.Venue.Name,
	)
	return d, nil
}

func (s *PricingService) quote(ctx context.Context, pair domain.Pair, amount asset.Amount, venue domain.Venue) (domain.Quote, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	q, err := s.provider.Quote(callCtx, pair, amount, venue)
	if err != nil {
		if apperror.IsAppError(err) {
			return domain.Quote{}, err
		}
		return domain.Quote{}, apperror.New(apperror.CodeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s on %s via %s", pair, venue.Name, s.provider.Name())))
	}
	return q, nil
}
