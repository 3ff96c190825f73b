package httpclient

import stderrors "errors"

func asError[T error](err error, target *T) bool {
	return stderrors.As(err, target)
}
