package apperror

import (
	"context"
	"errors"
)

// Kind groups error codes into the failure classes the control loop reacts to.
type Kind string

const (
	KindConfig       Kind = "config"
	KindTransient    Kind = "transient_network"
	KindExecution    Kind = "execution"
	KindBreakerTrip  Kind = "circuit_breaker_trip"
	KindLedgerWrite  Kind = "ledger_write"
	KindUnclassified Kind = "unclassified"
)

var kinds = map[Code]Kind{
	CodeConfigurationError: KindConfig,
	CodeRequiredField:      KindConfig,
	CodeValidationError:    KindConfig,

	CodeTransientNetwork:         KindTransient,
	CodeExternalServiceError:     KindTransient,
	CodeServiceTimeout:           KindTransient,
	CodeServiceUnavailable:       KindTransient,
	CodeRateLimitExceeded:        KindTransient,
	CodeEthereumConnectionFailed: KindTransient,
	CodeEthereumRPCError:         KindTransient,
	CodeGasPriceUnavailable:      KindTransient,
	CodeQuoteFailed:              KindTransient,
	CodeQuoteProviderError:       KindTransient,
	CodeInvalidQuote:             KindTransient,
	CodePoolNotFound:             KindTransient,
	CodeContractCallFailed:       KindTransient,
	CodeVolatilityUnavailable:    KindTransient,
	CodePredictionFailed:         KindTransient,
	CodeCircuitOpen:              KindTransient,
	CodeCircuitHalfOpen:          KindTransient,
	CodeDetectionFailed:          KindTransient,

	CodeExecutionError:      KindExecution,
	CodeSimulationReverted:  KindExecution,
	CodeGasEstimationFailed: KindExecution,
	CodeSigningFailed:       KindExecution,
	CodeSubmissionFailed:    KindExecution,
	CodeRelayFailed:         KindExecution,
	CodeSignerBusy:          KindExecution,

	CodeCircuitBreakerTripped: KindBreakerTrip,

	CodeLedgerWriteFailed: KindLedgerWrite,
}

// KindOf classifies err. Context deadlines and cancellations count as transient
// network failures since every network call in the loop runs under a timeout.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnclassified
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if k, ok := kinds[appErr.Code]; ok {
			return k
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient
	}
	return KindUnclassified
}

// IsKind reports whether err belongs to kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
