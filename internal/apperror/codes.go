package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"
	CodeTransientNetwork     Code = "TRANSIENT_NETWORK_ERROR"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Flashloan bot error codes
const (
	// Chain RPC errors
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeGasEstimationFailed      Code = "GAS_ESTIMATION_FAILED"
	CodeGasPriceUnavailable      Code = "GAS_PRICE_UNAVAILABLE"

	// Quote errors
	CodeQuoteFailed        Code = "QUOTE_FAILED"
	CodeQuoteProviderError Code = "QUOTE_PROVIDER_ERROR"
	CodeInvalidQuote       Code = "INVALID_QUOTE"
	CodePoolNotFound       Code = "POOL_NOT_FOUND"
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"
	CodeUnknownVenue       Code = "UNKNOWN_VENUE"

	// Feature and prediction errors
	CodeVolatilityUnavailable Code = "VOLATILITY_UNAVAILABLE"
	CodePredictionFailed      Code = "PREDICTION_FAILED"

	// Execution errors
	CodeExecutionError     Code = "EXECUTION_ERROR"
	CodeSimulationReverted Code = "SIMULATION_REVERTED"
	CodeSigningFailed      Code = "SIGNING_FAILED"
	CodeSubmissionFailed   Code = "SUBMISSION_FAILED"
	CodeRelayFailed        Code = "RELAY_FAILED"
	CodeSignerBusy         Code = "SIGNER_BUSY"

	// Control loop errors
	CodeCircuitBreakerTripped Code = "CIRCUIT_BREAKER_TRIPPED"
	CodeDetectionFailed       Code = "DETECTION_FAILED"

	// Ledger errors
	CodeLedgerWriteFailed Code = "LEDGER_WRITE_FAILED"
	CodeLedgerReadFailed  Code = "LEDGER_READ_FAILED"

	// Notification errors
	CodeNotificationFailed Code = "NOTIFICATION_FAILED"

	// Dependency circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
