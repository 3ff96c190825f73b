package middleware

import (
	"sync"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient"
	"github.com/noel-archive/orchid/logger"
	"github.com/noel-archive/orchid/resilience"
)

// CircuitBreaker refuses calls with resilience.ErrCircuitOpen while cb is
// open. A failed call counts against the breaker when isFailure says so; nil
// counts retryable failures (network, timeout, 429 and 5xx).
func CircuitBreaker(cb *resilience.CircuitBreaker, isFailure func(error) bool) httpclient.Middleware {
	if isFailure == nil {
		isFailure = errors.IsRetryable
	}
	var admitted sync.Map // call id -> struct{}

	return httpclient.Middleware{
		Name: "circuit-breaker",
		OnRequest: func(c *httpclient.Client, req *httpclient.Request) error {
			if _, ok := admitted.Load(req.ID()); ok {
				return nil
			}
			if err := cb.Allow(); err != nil {
				c.Extensions().Logger().Debug("call refused", logger.Fields(
					logger.FieldCallID, req.ID(),
					"breaker", cb.Name(),
					"state", cb.State().String(),
				))
				return err
			}
			admitted.Store(req.ID(), struct{}{})
			return nil
		},
		OnResponse: func(_ *httpclient.Client, res *httpclient.Response) error {
			if _, ok := admitted.LoadAndDelete(res.Request().ID()); ok {
				cb.Record(true)
			}
			return nil
		},
		OnError: func(_ *httpclient.Client, req *httpclient.Request, err error) error {
			if _, ok := admitted.LoadAndDelete(req.ID()); ok {
				cb.Record(!isFailure(err))
			}
			return nil
		},
	}
}

// Bulkhead holds one of b's slots for the whole call, redirects included.
// Calls that cannot get a slot fail without being sent.
func Bulkhead(b *resilience.Bulkhead) httpclient.Middleware {
	var held sync.Map // call id -> struct{}

	release := func(id string) {
		if _, ok := held.LoadAndDelete(id); ok {
			b.Release()
		}
	}

	return httpclient.Middleware{
		Name: "bulkhead",
		OnRequest: func(_ *httpclient.Client, req *httpclient.Request) error {
			if _, ok := held.Load(req.ID()); ok {
				return nil
			}
			if err := b.Acquire(req.Context()); err != nil {
				return err
			}
			held.Store(req.ID(), struct{}{})
			return nil
		},
		OnResponse: func(_ *httpclient.Client, res *httpclient.Response) error {
			release(res.Request().ID())
			return nil
		},
		OnError: func(_ *httpclient.Client, req *httpclient.Request, _ error) error {
			release(req.ID())
			return nil
		},
	}
}
