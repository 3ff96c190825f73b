package logger

import (
	"time"
)

// Standard field keys used by the client's log lines.
const (
	FieldComponent  = "component"
	FieldCallID     = "call_id"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldHop        = "hop"
	FieldLocation   = "location"
	FieldMiddleware = "middleware"
	FieldPhase      = "phase"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldBytes      = "bytes"
)

// Fields builds a map[string]any from alternating key-value pairs.
// Pairs whose key is not a string are skipped.
//
//	log.Debug("redirect", logger.Fields("from", a, "to", b))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]any {
	return map[string]any{
		"operation": op,
		FieldError:  err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]any {
	return map[string]any{
		"operation":   op,
		FieldDuration: d.Milliseconds(),
	}
}

// Merge copies extra into fields, allocating fields when nil.
func Merge(fields map[string]any, extra map[string]any) map[string]any {
	if fields == nil {
		fields = make(map[string]any, len(extra))
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
