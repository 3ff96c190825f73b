package httpclient

import (
	"slices"
	"sync"
	"time"

	"github.com/noel-archive/orchid/logger"
)

// Extensions are the typed capability slots middleware fill during Init.
// A zero Extensions has every capability off and a no-op logger.
type Extensions struct {
	mu          sync.RWMutex
	logger      *logger.Logger
	compression bool
	forms       bool
	streams     bool
	timings     *Timings
}

// Logger returns the installed logger, or a no-op logger.
func (e *Extensions) Logger() *logger.Logger {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.logger == nil {
		return logger.Nop()
	}
	return e.logger
}

// SetLogger installs l for the client's own log lines.
func (e *Extensions) SetLogger(l *logger.Logger) {
	e.mu.Lock()
	e.logger = l
	e.mu.Unlock()
}

// Compression reports whether compression is on by default.
func (e *Extensions) Compression() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.compression
}

// EnableCompression makes compress default to true for new requests.
func (e *Extensions) EnableCompression() {
	e.mu.Lock()
	e.compression = true
	e.mu.Unlock()
}

// Forms reports whether multipart bodies may be sent.
func (e *Extensions) Forms() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.forms
}

// EnableForms allows multipart bodies.
func (e *Extensions) EnableForms() {
	e.mu.Lock()
	e.forms = true
	e.mu.Unlock()
}

// Streams reports whether Response.Stream, Pipe and Events are available.
func (e *Extensions) Streams() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.streams
}

// EnableStreams makes the streaming accessors available.
func (e *Extensions) EnableStreams() {
	e.mu.Lock()
	e.streams = true
	e.mu.Unlock()
}

// Timings returns the installed timing store, or nil.
func (e *Extensions) Timings() *Timings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.timings
}

// SetTimings installs a timing store.
func (e *Extensions) SetTimings(t *Timings) {
	e.mu.Lock()
	e.timings = t
	e.mu.Unlock()
}

// Timings tracks in-flight call start times and a bounded history of call
// durations ("pings"). It is safe for concurrent use.
type Timings struct {
	mu      sync.Mutex
	limit   int
	started map[string]time.Time
	pings   []time.Duration
}

// NewTimings keeps at most history pings; history <= 0 keeps 100.
func NewTimings(history int) *Timings {
	if history <= 0 {
		history = 100
	}
	return &Timings{limit: history, started: make(map[string]time.Time)}
}

// Start records the start of call id. A second Start for the same id is ignored.
func (t *Timings) Start(id string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.started[id]; !ok {
		t.started[id] = at
	}
}

// Stop ends call id and records its duration.
func (t *Timings) Stop(id string, at time.Time) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	start, ok := t.started[id]
	if !ok {
		return 0, false
	}
	delete(t.started, id)
	d := at.Sub(start)
	t.pings = append(t.pings, d)
	if len(t.pings) > t.limit {
		t.pings = t.pings[len(t.pings)-t.limit:]
	}
	return d, true
}

// Discard forgets call id without recording a ping.
func (t *Timings) Discard(id string) {
	t.mu.Lock()
	delete(t.started, id)
	t.mu.Unlock()
}

// InFlight returns the number of started, unfinished calls.
func (t *Timings) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.started)
}

// Last returns the most recent ping.
func (t *Timings) Last() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pings) == 0 {
		return 0
	}
	return t.pings[len(t.pings)-1]
}

// Pings returns the recorded durations, oldest first.
func (t *Timings) Pings() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.pings)
}

// Average returns the mean of the recorded pings.
func (t *Timings) Average() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pings) == 0 {
		return 0
	}
	var sum time.Duration
	for _, p := range t.pings {
		sum += p
	}
	return sum / time.Duration(len(t.pings))
}
