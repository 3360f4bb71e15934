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

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumRPCError:         "Ethereum RPC call failed",
	CodeContractCallFailed:       "Smart contract call failed",

	// Pool directory errors
	CodeUniswapPoolNotFound:  "Uniswap pool not found",
	CodeTokenMetadataFailed:  "Failed to load token metadata",
	CodeInvalidFeeTier:       "Unsupported pool fee tier",
	CodeInvalidPool:          "Invalid pool definition",
	CodePoolInitFailed:       "Failed to initialize pool quoter",
	CodePoolStateUnavailable: "Failed to read pool state",

	// Quote errors
	CodeInvalidToken:     "Token does not belong to the pool",
	CodeInvalidAmount:    "Invalid amount",
	CodeAmountPrecision:  "Amount has more decimal places than the token supports",
	CodeQuoteUnavailable: "Quote unavailable",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
