package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the base error type every orchid error embeds.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation may succeed when repeated.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the response status that caused the error, if any.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("orchid: %s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("orchid: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// ErrorCode returns the machine-readable code.
func (e *AppError) ErrorCode() ErrorCode { return e.Code }

func (e *AppError) base() *AppError { return e }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

func newBase(code ErrorCode, message string, cause error) AppError {
	return AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
		Cause:     cause,
	}
}

// InvalidConfig creates an error for a client configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return New(ErrCodeInvalidConfig, message)
}

// ErrStreamsDisabled is returned by streaming accessors when the streams
// capability has not been installed on the client.
var ErrStreamsDisabled = New(ErrCodeStreamsDisabled, "streaming requires the streams middleware")

// baser is satisfied by AppError and every type embedding it.
type baser interface {
	error
	base() *AppError
}

// AsAppError returns the AppError embedded in the first orchid error of the chain.
func AsAppError(err error) (*AppError, bool) {
	var b baser
	if stderrors.As(err, &b) {
		return b.base(), true
	}
	return nil, false
}

// IsAppError checks if an error chain contains an orchid error.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// CodeOf returns the code of the first orchid error in the chain, or "".
func CodeOf(err error) ErrorCode {
	if ae, ok := AsAppError(err); ok {
		return ae.Code
	}
	return ""
}

// IsRetryable reports whether the first orchid error in the chain is retryable.
func IsRetryable(err error) bool {
	ae, ok := AsAppError(err)
	return ok && ae.Retryable
}
