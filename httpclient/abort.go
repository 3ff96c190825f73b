package httpclient

import (
	"context"
	stderrors "errors"
	"sync"
)

// ErrAborted is the cancellation cause recorded by AbortController.Abort.
var ErrAborted = stderrors.New("orchid: request aborted")

// AbortController cancels the calls it is attached to. One controller may be
// shared by several requests. The zero value is ready to use.
type AbortController struct {
	once   sync.Once
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewAbortController returns a fresh controller.
func NewAbortController() *AbortController {
	a := &AbortController{}
	a.init()
	return a
}

func (a *AbortController) init() {
	a.once.Do(func() {
		a.ctx, a.cancel = context.WithCancelCause(context.Background())
	})
}

// Abort signals cancellation. Calling it more than once has no further effect.
func (a *AbortController) Abort() {
	a.AbortWithCause(ErrAborted)
}

// AbortWithCause is Abort with a custom cause. Only the first cause is kept.
func (a *AbortController) AbortWithCause(cause error) {
	a.init()
	a.cancel(cause)
}

// Aborted reports whether Abort has been called.
func (a *AbortController) Aborted() bool {
	a.init()
	return a.ctx.Err() != nil
}

// Done is closed once the controller is aborted.
func (a *AbortController) Done() <-chan struct{} {
	a.init()
	return a.ctx.Done()
}

// Cause returns the abort cause, or nil while not aborted.
func (a *AbortController) Cause() error {
	a.init()
	return context.Cause(a.ctx)
}

// link derives a context from parent that is canceled when a aborts. The
// returned stop function must be called once the call finishes.
func (a *AbortController) link(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	if a == nil {
		return ctx, func() { cancel(nil) }
	}
	a.init()
	if a.Aborted() {
		cancel(a.Cause())
		return ctx, func() {}
	}
	stop := context.AfterFunc(a.ctx, func() { cancel(a.Cause()) })
	return ctx, func() {
		stop()
		cancel(nil)
	}
}
