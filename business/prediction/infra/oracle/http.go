package oracle

import (
	"context"
	"fmt"

	"github.com/fd1az/flashloan-bot/business/prediction/app"
	"github.com/fd1az/flashloan-bot/business/prediction/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/circuitbreaker"
	"github.com/fd1az/flashloan-bot/internal/httpclient"
)

var _ app.Oracle = (*HTTP)(nil)

type predictResponse struct {
	Profit *float64 `json:"profit"`
}

// HTTP posts the features to a model service and reads {"profit": x}.
type HTTP struct {
	client httpclient.Client
	path   string
	cb     *circuitbreaker.CircuitBreaker[float64]
}

// NewHTTP creates an HTTP oracle for the model service at url.
func NewHTTP(url string) (*HTTP, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("model-service"),
	)
	if err != nil {
		return nil, fmt.Errorf("create model service client: %w", err)
	}
	return &HTTP{
		client: client,
		path:   url,
		cb:     circuitbreaker.New[float64](circuitbreaker.DefaultConfig("prediction-oracle")),
	}, nil
}

func (h *HTTP) Name() string { return "http" }

func (h *HTTP) Predict(ctx context.Context, f domain.FeatureVector) (float64, error) {
	return h.cb.Execute(func() (float64, error) {
		var out predictResponse
		_, err := h.client.NewRequestWithOptions(
			httpclient.WithResponseErrorHandler(func(status int, body []byte) error {
				if status >= 400 {
					return fmt.Errorf("model service status %d", status)
				}
				return nil
			}),
		).
			SetBody(f).
			SetResult(&out).
			Post(ctx, h.path)
		if err != nil {
			return 0, apperror.New(apperror.CodePredictionFailed,
				apperror.WithCause(err),
				apperror.WithContext("model service"))
		}
		if out.Profit == nil {
			return 0, apperror.New(apperror.CodePredictionFailed,
				apperror.WithContext("model service response has no profit"))
		}
		return *out.Profit, nil
	})
}
