package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/business/prediction/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
)

var features = domain.FeatureVector{Amount: 5000, Slippage: 0.5, GasGwei: 30, Volatility: 2}

func TestLinear(t *testing.T) {
	l := NewLinear(Weights{Intercept: 0.1, Amount: 0.0001, Slippage: -1, GasPrice: -0.01, Volatility: 0.2})

	got, err := l.Predict(context.Background(), features)
	require.NoError(t, err)
	// 0.1 + 0.5 - 0.5 - 0.3 + 0.4
	assert.InDelta(t, 0.2, got, 1e-9)
}

func TestHTTPOracle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var got domain.FeatureVector
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, features, got)
		_, _ = w.Write([]byte(`{"profit": 0.75}`))
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL + "/predict")
	require.NoError(t, err)

	got, err := h.Predict(context.Background(), features)
	require.NoError(t, err)
	assert.Equal(t, 0.75, got)
}

func TestHTTPOracleErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server_error", status: http.StatusInternalServerError, body: `{}`},
		{name: "missing_profit", status: http.StatusOK, body: `{"score": 1}`},
		{name: "not_json", status: http.StatusOK, body: `nan`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			h, err := NewHTTP(srv.URL)
			require.NoError(t, err)

			_, err = h.Predict(context.Background(), features)
			assert.True(t, apperror.IsKind(err, apperror.KindTransient), "got %v", err)
		})
	}
}

func TestExecOracle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	// $0 is the program name, so the gas price lands in $3
	e, err := NewExec([]string{"sh", "-c", `echo "$3"`, "predictor"})
	require.NoError(t, err)

	got, err := e.Predict(context.Background(), features)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got)
}

func TestExecOracleNonNumeric(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	e, err := NewExec([]string{"sh", "-c", "echo model not found"})
	require.NoError(t, err)

	_, err = e.Predict(context.Background(), features)
	assert.Equal(t, apperror.CodePredictionFailed, apperror.GetCode(err))
}

func TestNewExecRequiresCommand(t *testing.T) {
	_, err := NewExec(nil)
	assert.True(t, apperror.IsKind(err, apperror.KindConfig))
}
