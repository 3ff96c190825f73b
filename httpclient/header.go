package httpclient

import (
	"iter"
	"net/http"
	"slices"
	"strings"
)

// Header is an ordered, case-insensitive header set. Names are stored
// lowercased in first-insertion order. The zero value is ready to use.
type Header struct {
	names  []string
	values map[string][]string
}

// NewHeader returns a header set seeded from m with first-wins semantics.
// Map iteration order is random, so keys are added sorted.
func NewHeader(m map[string]string) *Header {
	h := &Header{}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		h.Add(k, m[k])
	}
	return h
}

func (h *Header) init() {
	if h.values == nil {
		h.values = make(map[string][]string)
	}
}

// Add sets name to value unless name is already present. It reports whether
// the value was stored.
func (h *Header) Add(name, value string) bool {
	key := strings.ToLower(name)
	if h.Has(key) {
		return false
	}
	h.init()
	h.names = append(h.names, key)
	h.values[key] = []string{value}
	return true
}

// Append adds value to name, keeping existing values.
func (h *Header) Append(name, value string) {
	key := strings.ToLower(name)
	h.init()
	if _, ok := h.values[key]; !ok {
		h.names = append(h.names, key)
	}
	h.values[key] = append(h.values[key], value)
}

// Set replaces every value of name.
func (h *Header) Set(name, value string) {
	key := strings.ToLower(name)
	h.init()
	if _, ok := h.values[key]; !ok {
		h.names = append(h.names, key)
	}
	h.values[key] = []string{value}
}

// Get returns the first value of name, or "".
func (h *Header) Get(name string) string {
	if v := h.Values(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns every value of name in arrival order.
func (h *Header) Values(name string) []string {
	if h == nil || h.values == nil {
		return nil
	}
	return h.values[strings.ToLower(name)]
}

// Has reports whether name is present.
func (h *Header) Has(name string) bool {
	if h == nil || h.values == nil {
		return false
	}
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// Del removes name.
func (h *Header) Del(name string) {
	if h == nil || h.values == nil {
		return
	}
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	h.names = slices.DeleteFunc(h.names, func(n string) bool { return n == key })
}

// Keys returns the header names in insertion order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	return slices.Clone(h.names)
}

// Len returns the number of distinct names.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// All iterates names and their values in insertion order.
func (h *Header) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if h == nil {
			return
		}
		for _, n := range h.names {
			if !yield(n, h.values[n]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	c := &Header{}
	if h == nil || h.values == nil {
		return c
	}
	c.names = slices.Clone(h.names)
	c.values = make(map[string][]string, len(h.values))
	for k, v := range h.values {
		c.values[k] = slices.Clone(v)
	}
	return c
}

// Map returns a copy as a plain map.
func (h *Header) Map() map[string][]string {
	out := make(map[string][]string, h.Len())
	for n, v := range h.All() {
		out[n] = slices.Clone(v)
	}
	return out
}

// toHTTP converts to net/http's canonical form.
func (h *Header) toHTTP() http.Header {
	out := make(http.Header, h.Len())
	for n, vs := range h.All() {
		for _, v := range vs {
			out.Add(n, v)
		}
	}
	return out
}

// headerFromHTTP collapses an http.Header into a lowercased Header. Names are
// sorted because http.Header does not keep arrival order.
func headerFromHTTP(src http.Header) *Header {
	h := &Header{}
	names := make([]string, 0, len(src))
	for n := range src {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		for _, v := range src[n] {
			h.Append(n, v)
		}
	}
	return h
}
