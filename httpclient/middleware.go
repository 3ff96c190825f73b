package httpclient

import (
	stderrors "errors"
	"strings"
	"sync"

	"github.com/noel-archive/orchid/errors"
)

// Phase is a lifecycle point a middleware can subscribe to.
type Phase uint8

const (
	// PhaseRequest runs before every hop is sent.
	PhaseRequest Phase = 1 << iota
	// PhaseResponse runs once, after the final hop is fully buffered.
	// Intermediate redirect hops never reach it.
	PhaseResponse
	// PhaseError runs once when a call fails after the request phase began.
	PhaseError
)

// Has reports whether p includes q.
func (p Phase) Has(q Phase) bool { return p&q != 0 }

func (p Phase) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	if p.Has(PhaseRequest) {
		parts = append(parts, "request")
	}
	if p.Has(PhaseResponse) {
		parts = append(parts, "response")
	}
	if p.Has(PhaseError) {
		parts = append(parts, "error")
	}
	return strings.Join(parts, "|")
}

// Middleware is a named set of lifecycle hooks. Subscription is derived from
// which hooks are non-nil. Init runs exactly once, when the middleware is
// registered on a client.
type Middleware struct {
	Name       string
	Init       func(c *Client) error
	OnRequest  func(c *Client, req *Request) error
	OnResponse func(c *Client, res *Response) error
	OnError    func(c *Client, req *Request, err error) error
}

// Phases returns the phases the middleware subscribes to.
func (m Middleware) Phases() Phase {
	var p Phase
	if m.OnRequest != nil {
		p |= PhaseRequest
	}
	if m.OnResponse != nil {
		p |= PhaseResponse
	}
	if m.OnError != nil {
		p |= PhaseError
	}
	return p
}

// OnRequest returns a single-phase request middleware.
func OnRequest(name string, fn func(*Client, *Request) error) Middleware {
	return Middleware{Name: name, OnRequest: fn}
}

// OnResponse returns a single-phase response middleware.
func OnResponse(name string, fn func(*Client, *Response) error) Middleware {
	return Middleware{Name: name, OnResponse: fn}
}

// OnError returns a single-phase error middleware.
func OnError(name string, fn func(*Client, *Request, error) error) Middleware {
	return Middleware{Name: name, OnError: fn}
}

// Setup returns a middleware that only runs Init, used for capabilities.
func Setup(name string, fn func(*Client) error) Middleware {
	return Middleware{Name: name, Init: fn}
}

// MiddlewareRegistry holds a client's middleware in registration order.
type MiddlewareRegistry struct {
	mu      sync.RWMutex
	entries []Middleware
}

// register runs Init and stores m. A middleware with the same name is
// replaced in place; the old entry gets no notification.
func (r *MiddlewareRegistry) register(c *Client, m Middleware) error {
	if m.Name == "" {
		return errors.InvalidConfig("middleware name is required")
	}
	if m.Init != nil {
		if err := m.Init(c); err != nil {
			return errors.NewHook(m.Name, "init", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].Name == m.Name {
			r.entries[i] = m
			return nil
		}
	}
	r.entries = append(r.entries, m)
	return nil
}

// Names lists registered middleware in order.
func (r *MiddlewareRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// Get returns the middleware registered under name.
func (r *MiddlewareRegistry) Get(name string) (Middleware, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Middleware{}, false
}

// Len returns the number of registered middleware.
func (r *MiddlewareRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// subscribed snapshots the entries for phase so hooks run without the lock.
func (r *MiddlewareRegistry) subscribed(phase Phase) []Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Middleware, 0, len(r.entries))
	for _, e := range r.entries {
		if e.Phases().Has(phase) {
			out = append(out, e)
		}
	}
	return out
}

func (r *MiddlewareRegistry) runRequest(c *Client, req *Request) error {
	for _, m := range r.subscribed(PhaseRequest) {
		if err := m.OnRequest(c, req); err != nil {
			return errors.NewHook(m.Name, "request", err)
		}
	}
	return nil
}

func (r *MiddlewareRegistry) runResponse(c *Client, res *Response) error {
	for _, m := range r.subscribed(PhaseResponse) {
		if err := m.OnResponse(c, res); err != nil {
			return errors.NewHook(m.Name, "response", err)
		}
	}
	return nil
}

// runError gives every error hook a chance to run and joins their failures
// to cause.
func (r *MiddlewareRegistry) runError(c *Client, req *Request, cause error) error {
	errs := []error{cause}
	for _, m := range r.subscribed(PhaseError) {
		if err := m.OnError(c, req, cause); err != nil {
			errs = append(errs, errors.NewHook(m.Name, "error", err))
		}
	}
	if len(errs) == 1 {
		return cause
	}
	return stderrors.Join(errs...)
}
