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

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Quoter-specific error codes
const (
	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeContractCallFailed       Code = "CONTRACT_CALL_FAILED"

	// Pool directory errors
	CodeUniswapPoolNotFound  Code = "UNISWAP_POOL_NOT_FOUND"
	CodeTokenMetadataFailed  Code = "TOKEN_METADATA_FAILED"
	CodeInvalidFeeTier       Code = "INVALID_FEE_TIER"
	CodeInvalidPool          Code = "INVALID_POOL"
	CodePoolInitFailed       Code = "POOL_INIT_FAILED"
	CodePoolStateUnavailable Code = "POOL_STATE_UNAVAILABLE"

	// Quote errors
	CodeInvalidToken     Code = "INVALID_TOKEN"
	CodeInvalidAmount    Code = "INVALID_AMOUNT"
	CodeAmountPrecision  Code = "AMOUNT_PRECISION"
	CodeQuoteUnavailable Code = "QUOTE_UNAVAILABLE"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
