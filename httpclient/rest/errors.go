package rest

import (
	"net/http"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
)

// REST error helpers re-export httpclient's classification so REST users
// don't need to import httpclient for error checks.

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsAuth checks if the error is a 401 or 403.
func IsAuth(err error) bool {
	se, ok := httpclient.StatusError(err)
	return ok && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden)
}

// IsRateLimit checks if the error is a 429 Too Many Requests.
func IsRateLimit(err error) bool {
	se, ok := httpclient.StatusError(err)
	return ok && se.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the error is a 5xx server error.
func IsServerError(err error) bool { return httpclient.IsServerError(err) }

// IsRetryable checks if the error can be retried.
func IsRetryable(err error) bool { return errors.IsRetryable(err) }

// IsTimeout checks if the error is a timeout.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }
