// Package errors defines the error taxonomy surfaced by orchid.
//
// Every error returned by the client embeds AppError, which carries a
// machine-readable ErrorCode, a retryable hint and optional details. Callers
// branch either on the concrete type:
//
//	var te *errors.TimeoutError
//	if stderrors.As(err, &te) {
//	    log.Printf("gave up on %s after %s", te.URL, te.Timeout)
//	}
//
// or on the code, which works for every error in the taxonomy:
//
//	if errors.CodeOf(err) == errors.ErrCodeHTTPStatus { ... }
package errors
