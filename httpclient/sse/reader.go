// Package sse decodes text/event-stream payloads into events.
//
// The reader works on any io.Reader; orchid hands it the buffered body of a
// response through Response.Events:
//
//	events, err := res.Events()
//	for ev, err := range events.All() {
//	    ...
//	}
package sse

import (
	"bufio"
	"io"
	"iter"
	"strconv"
	"strings"
	"time"
)

// maxLineSize bounds a single event-stream line.
const maxLineSize = 1 << 20

// Event is one dispatched server-sent event.
type Event struct {
	// Event is the type from "event:" lines. Empty means "message".
	Event string
	// Data holds the "data:" lines joined with newlines.
	Data string
	// ID is the last event id seen on the stream, which persists across
	// events until changed.
	ID string
	// Retry is the reconnection delay announced by the server, zero if none.
	Retry time.Duration
}

// Type returns the event type, defaulting to "message".
func (e *Event) Type() string {
	if e.Event == "" {
		return "message"
	}
	return e.Event
}

// Reader reads server-sent events from a stream.
type Reader interface {
	// Next returns the next event, or io.EOF once the stream ends.
	Next() (*Event, error)
	// All iterates over the remaining events. Iteration stops after the
	// first error, which is yielded once; io.EOF is not yielded.
	All() iter.Seq2[*Event, error]
	// Close releases the underlying stream.
	Close() error
}

type reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	lastID  string
	retry   time.Duration
	started bool
}

// NewReader wraps r. If r is an io.Closer, Close closes it.
func NewReader(r io.Reader) Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	rd := &reader{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

func (r *reader) Next() (*Event, error) {
	var (
		event   Event
		data    strings.Builder
		hasData bool
	)

	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !r.started {
			line = strings.TrimPrefix(line, "\ufeff")
			r.started = true
		}

		if line == "" {
			if hasData {
				return r.finish(&event, &data), nil
			}
			event = Event{}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := parseSSELine(line)
		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			event.Event = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, err := strconv.ParseUint(value, 10, 63); err == nil {
				r.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		return r.finish(&event, &data), nil
	}
	return nil, io.EOF
}

func (r *reader) finish(ev *Event, data *strings.Builder) *Event {
	ev.Data = data.String()
	ev.ID = r.lastID
	ev.Retry = r.retry
	return ev
}

func (r *reader) All() iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		for {
			ev, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
}

func (r *reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// parseSSELine splits a line into field and value, dropping one space after
// the colon.
func parseSSELine(line string) (field, value string) {
	field, value, found := strings.Cut(line, ":")
	if !found {
		return line, ""
	}
	return field, strings.TrimPrefix(value, " ")
}
