package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/flashloan-bot/business/prediction/domain"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// ServiceConfig holds the static features and the per-call timeout.
type ServiceConfig struct {
	Amount   float64
	Slippage float64
	Timeout  time.Duration
}

// PredictionService assembles features and asks the oracle. It never fails:
// unavailable features count as 0 and so does any oracle failure.
type PredictionService struct {
	cfg        ServiceConfig
	gas        GasSource
	volatility VolatilitySource
	oracle     Oracle
	logger     logger.LoggerInterface
	tracer     trace.Tracer
}

// NewPredictionService creates a PredictionService.
func NewPredictionService(cfg ServiceConfig, gas GasSource, volatility VolatilitySource, oracle Oracle, log logger.LoggerInterface) *PredictionService {
	return &PredictionService{
		cfg:        cfg,
		gas:        gas,
		volatility: volatility,
		oracle:     oracle,
		logger:     log,
		tracer:     otel.Tracer("prediction"),
	}
}

// Features collects the feature vector.
func (s *PredictionService) Features(ctx context.Context) domain.FeatureVector {
	f := domain.FeatureVector{
		Amount:   s.cfg.Amount,
		Slippage: s.cfg.Slippage,
	}

	if s.gas != nil {
		gctx, cancel := s.withTimeout(ctx)
		gwei, err := s.gas.GasGwei(gctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "gas price feature unavailable", "error", err)
		} else {
			f.GasGwei = domain.Sanitize(gwei)
		}
	}

	if s.volatility != nil {
		vctx, cancel := s.withTimeout(ctx)
		vol, err := s.volatility.Volatility(vctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "volatility feature unavailable", "error", err)
		} else {
			f.Volatility = domain.Sanitize(vol)
		}
	}

	return f
}

// Predict collects features and evaluates the oracle once.
func (s *PredictionService) Predict(ctx context.Context) domain.Prediction {
	ctx, span := s.tracer.Start(ctx, "prediction.predict",
		trace.WithAttributes(attribute.String("oracle", s.oracle.Name())))
	defer span.End()

	p := domain.Prediction{
		Features: s.Features(ctx),
		Oracle:   s.oracle.Name(),
	}

	octx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := s.oracle.Predict(octx, p.Features)
	if err != nil {
		p.Err = err
		span.RecordError(err)
		s.logger.Warn(ctx, "prediction failed, treating as 0", "oracle", p.Oracle, "error", err)
		return p
	}
	p.Percent = domain.Sanitize(v)

	span.SetAttributes(attribute.Float64("predicted_percent", p.Percent))
	s.logger.Debug(ctx, "prediction",
		"oracle", p.Oracle,
		"amount", p.Features.Amount,
		"slippage", p.Features.Slippage,
		"gas_gwei", p.Features.GasGwei,
		"volatility", p.Features.Volatility,
		"predicted_percent", p.Percent,
	)
	return p
}

func (s *PredictionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}
