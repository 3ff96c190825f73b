package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors, raised before any I/O.
const (
	// ErrCodeInvalidURL indicates the request URL could not be resolved.
	ErrCodeInvalidURL ErrorCode = "INVALID_URL"
	// ErrCodeInvalidMethod indicates the HTTP verb is not supported.
	ErrCodeInvalidMethod ErrorCode = "INVALID_METHOD"
	// ErrCodeAmbiguousRequest indicates conflicting request arguments.
	ErrCodeAmbiguousRequest ErrorCode = "AMBIGUOUS_REQUEST"
	// ErrCodeInvalidBody indicates a body that cannot be sent with the request.
	ErrCodeInvalidBody ErrorCode = "INVALID_BODY"
	// ErrCodeInvalidConfig indicates an invalid client configuration.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Transport errors
const (
	// ErrCodeNetwork indicates a connection-level failure.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the request was aborted.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Protocol errors
const (
	// ErrCodeHTTPStatus indicates a response outside the success range.
	ErrCodeHTTPStatus ErrorCode = "HTTP_STATUS"
	// ErrCodeTooManyRedirects indicates the redirect chase exceeded its bound.
	ErrCodeTooManyRedirects ErrorCode = "TOO_MANY_REDIRECTS"
)

// Pipeline errors
const (
	// ErrCodeSerialization indicates a response body could not be decoded.
	ErrCodeSerialization ErrorCode = "SERIALIZATION"
	// ErrCodeHookFailed indicates a middleware hook returned an error.
	ErrCodeHookFailed ErrorCode = "HOOK_FAILED"
	// ErrCodeStreamsDisabled indicates a streaming accessor was used
	// without the streams capability.
	ErrCodeStreamsDisabled ErrorCode = "STREAMS_DISABLED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeNetwork: true,
	ErrCodeTimeout: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// orchid never retries on its own; the flag is a hint for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
