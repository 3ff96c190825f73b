package httpclient

import (
	stderrors "errors"
	"net/http"

	"github.com/noel-archive/orchid/errors"
)

// IsTimeout reports whether err is a hop timeout.
func IsTimeout(err error) bool {
	var te *errors.TimeoutError
	return stderrors.As(err, &te)
}

// IsNetwork reports whether err is a connection-level failure.
func IsNetwork(err error) bool {
	var ne *errors.NetworkError
	return stderrors.As(err, &ne)
}

// IsCanceled reports whether err comes from an abort or a canceled context.
func IsCanceled(err error) bool {
	var ce *errors.CanceledError
	return stderrors.As(err, &ce)
}

// IsHTTPStatus reports whether err is a non-success status.
func IsHTTPStatus(err error) bool {
	_, ok := StatusError(err)
	return ok
}

// StatusError extracts the status error from err's chain.
func StatusError(err error) (*errors.HTTPStatusError, bool) {
	var se *errors.HTTPStatusError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 status.
func IsNotFound(err error) bool {
	se, ok := StatusError(err)
	return ok && se.StatusCode == http.StatusNotFound
}

// IsServerError reports whether err is a 5xx status.
func IsServerError(err error) bool {
	se, ok := StatusError(err)
	return ok && se.StatusCode >= 500
}
