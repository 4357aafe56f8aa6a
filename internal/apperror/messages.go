package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",
	CodeTransientNetwork:     "Transient network failure",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Chain RPC errors
	CodeEthereumConnectionFailed: "Failed to connect to chain node",
	CodeEthereumRPCError:         "Chain RPC call failed",
	CodeGasEstimationFailed:      "Gas estimation failed",
	CodeGasPriceUnavailable:      "Gas price unavailable",

	// Quote errors
	CodeQuoteFailed:        "Failed to get venue quote",
	CodeQuoteProviderError: "Quote provider returned an error",
	CodeInvalidQuote:       "Invalid quote data",
	CodePoolNotFound:       "Pool not found for any fee tier",
	CodeContractCallFailed: "Smart contract call failed",
	CodeUnknownVenue:       "Venue is not configured",

	// Feature and prediction errors
	CodeVolatilityUnavailable: "Volatility figure unavailable",
	CodePredictionFailed:      "Prediction oracle failed",

	// Execution errors
	CodeExecutionError:     "Trade execution failed",
	CodeSimulationReverted: "Flashloan simulation reverted",
	CodeSigningFailed:      "Failed to sign transaction",
	CodeSubmissionFailed:   "Failed to submit transaction",
	CodeRelayFailed:        "Private relay submission failed",
	CodeSignerBusy:         "Signing key is held by another submission",

	// Control loop errors
	CodeCircuitBreakerTripped: "Stop loss reached, bot halted",
	CodeDetectionFailed:       "Opportunity detection failed",

	// Ledger errors
	CodeLedgerWriteFailed: "Failed to append ledger record",
	CodeLedgerReadFailed:  "Failed to read ledger records",

	// Notification errors
	CodeNotificationFailed: "Failed to deliver notification",

	// Dependency circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
