package app

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fd1az/flashloan-bot/business/prediction/domain"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

type mockOracle struct{ mock.Mock }

func (m *mockOracle) Name() string { return "mock" }

func (m *mockOracle) Predict(ctx context.Context, f domain.FeatureVector) (float64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(float64), args.Error(1)
}

type gasFunc func(context.Context) (float64, error)

func (f gasFunc) GasGwei(ctx context.Context) (float64, error) { return f(ctx) }

type volFunc func(context.Context) (float64, error)

func (f volFunc) Volatility(ctx context.Context) (float64, error) { return f(ctx) }

func constGas(v float64) GasSource {
	return gasFunc(func(context.Context) (float64, error) { return v, nil })
}

func constVol(v float64) VolatilitySource {
	return volFunc(func(context.Context) (float64, error) { return v, nil })
}

func TestPredictPassesFeatures(t *testing.T) {
	oracle := &mockOracle{}
	want := domain.FeatureVector{Amount: 5000, Slippage: 0.5, GasGwei: 42, Volatility: 2.5}
	oracle.On("Predict", mock.Anything, want).Return(0.8, nil).Once()

	svc := NewPredictionService(ServiceConfig{Amount: 5000, Slippage: 0.5}, constGas(42), constVol(2.5), oracle, logger.Discard())

	p := svc.Predict(context.Background())
	assert.Equal(t, 0.8, p.Percent)
	assert.NoError(t, p.Err)
	oracle.AssertExpectations(t)
}

func TestPredictFailuresAreZero(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		err   error
	}{
		{name: "oracle_error", value: 3, err: errors.New("model missing")},
		{name: "nan", value: math.NaN()},
		{name: "positive_inf", value: math.Inf(1)},
		{name: "negative_inf", value: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &mockOracle{}
			oracle.On("Predict", mock.Anything, mock.Anything).Return(tt.value, tt.err)

			svc := NewPredictionService(ServiceConfig{Amount: 5000}, constGas(1), constVol(1), oracle, logger.Discard())
			assert.Zero(t, svc.Predict(context.Background()).Percent)
		})
	}
}

func TestUnavailableFeaturesAreZero(t *testing.T) {
	failingGas := gasFunc(func(context.Context) (float64, error) { return 0, errors.New("rpc down") })
	failingVol := volFunc(func(context.Context) (float64, error) { return 0, errors.New("binance down") })

	svc := NewPredictionService(ServiceConfig{Amount: 1000, Slippage: 0.3}, failingGas, failingVol, &mockOracle{}, logger.Discard())

	f := svc.Features(context.Background())
	assert.Equal(t, domain.FeatureVector{Amount: 1000, Slippage: 0.3}, f)
}
