package httpclient

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestAbortControllerIdempotent(t *testing.T) {
	a := NewAbortController()
	if a.Aborted() || a.Cause() != nil {
		t.Fatal("fresh controller must not be aborted")
	}
	a.Abort()
	a.AbortWithCause(stderrors.New("second"))
	if !a.Aborted() {
		t.Fatal("expected aborted")
	}
	if !stderrors.Is(a.Cause(), ErrAborted) {
		t.Errorf("cause = %v, want ErrAborted", a.Cause())
	}
	select {
	case <-a.Done():
	default:
		t.Error("Done must be closed after Abort")
	}
}

func TestAbortControllerZeroValue(t *testing.T) {
	var a AbortController
	a.Abort()
	if !a.Aborted() {
		t.Error("zero value must be usable")
	}
}

func TestLinkPropagatesAbort(t *testing.T) {
	a := NewAbortController()
	ctx, stop := a.link(context.Background())
	defer stop()

	a.Abort()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("linked context was not canceled")
	}
	if !stderrors.Is(context.Cause(ctx), ErrAborted) {
		t.Errorf("cause = %v", context.Cause(ctx))
	}
}

func TestLinkAlreadyAborted(t *testing.T) {
	a := NewAbortController()
	a.Abort()
	ctx, stop := a.link(context.Background())
	defer stop()
	if ctx.Err() == nil {
		t.Error("expected canceled context")
	}
}

func TestLinkNilController(t *testing.T) {
	var a *AbortController
	ctx, stop := a.link(context.Background())
	if ctx.Err() != nil {
		t.Fatal("nil controller must not cancel")
	}
	stop()
	if ctx.Err() == nil {
		t.Error("stop must release the context")
	}
}

func TestTimings(t *testing.T) {
	tm := NewTimings(2)
	base := time.Now()
	tm.Start("a", base)
	tm.Start("a", base.Add(time.Hour))
	tm.Start("b", base)
	tm.Start("c", base)
	if tm.InFlight() != 3 {
		t.Fatalf("in flight = %d", tm.InFlight())
	}

	if d, ok := tm.Stop("a", base.Add(10*time.Millisecond)); !ok || d != 10*time.Millisecond {
		t.Errorf("stop a = %v, %v", d, ok)
	}
	tm.Stop("b", base.Add(20*time.Millisecond))
	tm.Stop("c", base.Add(30*time.Millisecond))
	if _, ok := tm.Stop("missing", base); ok {
		t.Error("stopping an unknown id must report false")
	}

	if got := tm.Pings(); len(got) != 2 || got[0] != 20*time.Millisecond {
		t.Errorf("pings = %v", got)
	}
	if tm.Last() != 30*time.Millisecond || tm.Average() != 25*time.Millisecond {
		t.Errorf("last = %v average = %v", tm.Last(), tm.Average())
	}

	tm.Start("d", base)
	tm.Discard("d")
	if tm.InFlight() != 0 {
		t.Errorf("in flight = %d", tm.InFlight())
	}
}

func TestExtensionsDefaults(t *testing.T) {
	var e Extensions
	if e.Compression() || e.Forms() || e.Streams() || e.Timings() != nil {
		t.Error("zero extensions must have every capability off")
	}
	if e.Logger() == nil {
		t.Error("Logger must never be nil")
	}
	e.EnableCompression()
	e.EnableForms()
	e.EnableStreams()
	if !e.Compression() || !e.Forms() || !e.Streams() {
		t.Error("capabilities not enabled")
	}
}
