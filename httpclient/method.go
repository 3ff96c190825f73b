package httpclient

import (
	"strings"

	"github.com/noel-archive/orchid/errors"
)

// Method is an HTTP verb. Values are always uppercase.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPut     Method = "PUT"
	MethodPost    Method = "POST"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodDelete  Method = "DELETE"
)

var methods = []Method{
	MethodGet, MethodPut, MethodPost, MethodPatch, MethodHead,
	MethodTrace, MethodConnect, MethodOptions, MethodDelete,
}

// Methods returns the supported verbs.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ParseMethod uppercases s and checks it against the supported verbs.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", errors.NewInvalidMethod(s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	for _, v := range methods {
		if v == m {
			return true
		}
	}
	return false
}

func (m Method) String() string { return string(m) }
