package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeEmptySeries          ErrorCode = 103
	ErrCodeInvalidPrice         ErrorCode = 104
	ErrCodeInvalidBalance       ErrorCode = 105
	ErrCodeInvalidInterval      ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound ErrorCode = 200
	ErrCodeQueryFailed  ErrorCode = 201
	ErrCodeStoreClosed  ErrorCode = 202

	// Market data errors (300-399)
	// Raised only by the price-history providers, never by the core pipeline.
	ErrCodeFetchFailed     ErrorCode = 300
	ErrCodeFetchParse      ErrorCode = 301
	ErrCodeInvalidProvider ErrorCode = 302
	ErrCodeWriteFailed     ErrorCode = 303
)

// IsInvalidInput reports whether err carries a validation-range code.
// This is the "pipeline rejected malformed input" half of the error taxonomy.
func IsInvalidInput(err error) bool {
	code := GetCode(err)

	return code >= 100 && code < 200
}

// IsUpstreamFetch reports whether err carries a market-data-range code.
// This is the "fetch failed" half of the taxonomy; the pipeline never produces
// these itself and never retries them.
func IsUpstreamFetch(err error) bool {
	code := GetCode(err)

	return code >= 300 && code < 400
}
