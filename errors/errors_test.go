package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "bad config")
	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidConfig, err.Code)
	}
	if err.Message != "bad config" {
		t.Errorf("expected message 'bad config', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("INVALID_CONFIG should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	if !New(ErrCodeTimeout, "timed out").Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if !New(ErrCodeNetwork, "reset").Retryable {
		t.Error("NETWORK_ERROR should be retryable")
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	err := New(ErrCodeNetwork, "dial failed").WithCause(fmt.Errorf("connection refused"))
	msg := err.Error()
	if !strings.Contains(msg, "NETWORK_ERROR") || !strings.Contains(msg, "connection refused") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestAppError_WithDetails(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "x").WithDetail("a", 1).WithDetails(map[string]any{"b": 2})
	if err.Details["a"] != 1 || err.Details["b"] != 2 {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestTimeoutError_Fields(t *testing.T) {
	err := NewTimeout("http://example.com/slow", 50*time.Millisecond)
	if err.Timeout != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %s", err.Timeout)
	}
	if err.URL != "http://example.com/slow" {
		t.Errorf("unexpected url %q", err.URL)
	}
	if err.Code != ErrCodeTimeout || !err.Retryable {
		t.Errorf("unexpected code/retryable: %s/%v", err.Code, err.Retryable)
	}
}

func TestHTTPStatusError_Fields(t *testing.T) {
	err := NewHTTPStatus(http.StatusNotFound, []byte("missing"))
	if err.StatusCode != 404 || err.StatusText != "Not Found" {
		t.Errorf("unexpected status: %d %s", err.StatusCode, err.StatusText)
	}
	if string(err.Body) != "missing" {
		t.Errorf("unexpected body %q", err.Body)
	}
	if err.Retryable {
		t.Error("404 should not be retryable")
	}
	if !NewHTTPStatus(http.StatusBadGateway, nil).Retryable {
		t.Error("502 should be retryable")
	}
}

func TestAsAppError_TypedErrors(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NewInvalidURL("foo", "not absolute", nil), ErrCodeInvalidURL},
		{NewInvalidMethod("FETCH"), ErrCodeInvalidMethod},
		{NewAmbiguousRequest("url", "given twice"), ErrCodeAmbiguousRequest},
		{NewInvalidBody("GET", "GET cannot carry a body"), ErrCodeInvalidBody},
		{NewNetwork("GET", "http://x", fmt.Errorf("refused")), ErrCodeNetwork},
		{NewCanceled("http://x", nil), ErrCodeCanceled},
		{NewTooManyRedirects("http://x", 10), ErrCodeTooManyRedirects},
		{NewSerialization("application/json", fmt.Errorf("eof")), ErrCodeSerialization},
		{NewHook("auth", "request", fmt.Errorf("no token")), ErrCodeHookFailed},
		{ErrStreamsDisabled, ErrCodeStreamsDisabled},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("call: %w", tc.err)
		ae, ok := AsAppError(wrapped)
		if !ok {
			t.Errorf("%T: expected AsAppError to succeed", tc.err)
			continue
		}
		if ae.Code != tc.code {
			t.Errorf("%T: expected %s, got %s", tc.err, tc.code, ae.Code)
		}
		if CodeOf(wrapped) != tc.code {
			t.Errorf("%T: CodeOf mismatch", tc.err)
		}
	}
}

func TestErrorsAs_ConcreteType(t *testing.T) {
	var err error = fmt.Errorf("outer: %w", NewSerialization("text/csv", nil))
	var se *SerializationError
	if !stderrors.As(err, &se) {
		t.Fatal("expected errors.As to find *SerializationError")
	}
	if se.ContentType != "text/csv" {
		t.Errorf("unexpected content type %q", se.ContentType)
	}
}

func TestErrorsIs_StreamsDisabled(t *testing.T) {
	err := fmt.Errorf("stream: %w", ErrStreamsDisabled)
	if !stderrors.Is(err, ErrStreamsDisabled) {
		t.Error("expected errors.Is to match ErrStreamsDisabled")
	}
}

func TestHookError_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewHook("x", "response", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected hook error to unwrap to its cause")
	}
}

func TestCodeOf_NonAppError(t *testing.T) {
	if CodeOf(fmt.Errorf("plain")) != "" {
		t.Error("expected empty code for plain error")
	}
	if IsAppError(nil) {
		t.Error("nil is not an AppError")
	}
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain error should not be retryable")
	}
}
