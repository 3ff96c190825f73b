package serializer

import (
	"mime"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/noel-archive/orchid/errors"
)

// Wildcard is the fallback matcher.
const Wildcard = "*"

// Decoder turns a response body into a Go value.
type Decoder interface {
	Decode(data []byte) (any, error)
}

// Unmarshaler is implemented by decoders that can fill a caller-supplied value.
type Unmarshaler interface {
	Unmarshal(data []byte, v any) error
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) (any, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (any, error) { return f(data) }

type pattern struct {
	re      *regexp.Regexp
	decoder Decoder
}

// Registry resolves content types to decoders. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	exact    map[string]Decoder
	patterns []pattern
}

// NewRegistry returns a registry with the built-in JSON and text decoders.
func NewRegistry() *Registry {
	r := &Registry{exact: make(map[string]Decoder)}
	r.Register("application/json", JSON{})
	r.Register(Wildcard, Text{})
	return r
}

// Register binds an exact content type (or Wildcard) to d, replacing any
// decoder previously bound to the same type.
func (r *Registry) Register(contentType string, d Decoder) {
	key := contentType
	if key != Wildcard {
		key = Normalize(contentType)
	}
	r.mu.Lock()
	r.exact[key] = d
	r.mu.Unlock()
}

// RegisterPattern binds every content type matching re to d. A pattern with
// the same source as an existing one replaces it in place, keeping its
// position.
func (r *Registry) RegisterPattern(re *regexp.Regexp, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.patterns {
		if p.re.String() == re.String() {
			r.patterns[i].decoder = d
			return
		}
	}
	r.patterns = append(r.patterns, pattern{re: re, decoder: d})
}

// Unregister removes an exact matcher. It reports whether one was removed.
func (r *Registry) Unregister(contentType string) bool {
	key := contentType
	if key != Wildcard {
		key = Normalize(contentType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exact[key]; !ok {
		return false
	}
	delete(r.exact, key)
	return true
}

// Resolve returns the decoder for contentType, or nil when nothing matches
// and no wildcard is registered.
func (r *Registry) Resolve(contentType string) Decoder {
	ct := Normalize(contentType)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.exact[ct]; ok && ct != Wildcard {
		return d
	}
	for _, p := range r.patterns {
		if p.re.MatchString(ct) {
			return p.decoder
		}
	}
	return r.exact[Wildcard]
}

// Decode resolves contentType and decodes data. Decoder failures are
// returned as *errors.SerializationError.
func (r *Registry) Decode(contentType string, data []byte) (any, error) {
	d := r.Resolve(contentType)
	if d == nil {
		return string(data), nil
	}
	v, err := d.Decode(data)
	if err != nil {
		return nil, errors.NewSerialization(contentType, err)
	}
	return v, nil
}

// Unmarshal resolves contentType and decodes data into v. Decoders that do
// not implement Unmarshaler fail with a SerializationError.
func (r *Registry) Unmarshal(contentType string, data []byte, v any) error {
	u, ok := r.Resolve(contentType).(Unmarshaler)
	if !ok {
		return errors.NewSerialization(contentType, errNoUnmarshal)
	}
	if err := u.Unmarshal(data, v); err != nil {
		return errors.NewSerialization(contentType, err)
	}
	return nil
}

// Matchers lists registered matchers: exact types sorted, then patterns in
// registration order.
func (r *Registry) Matchers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.exact)+len(r.patterns))
	for k := range r.exact {
		out = append(out, k)
	}
	slices.Sort(out)
	for _, p := range r.patterns {
		out = append(out, p.re.String())
	}
	return out
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &Registry{
		exact:    make(map[string]Decoder, len(r.exact)),
		patterns: slices.Clone(r.patterns),
	}
	for k, v := range r.exact {
		c.exact[k] = v
	}
	return c
}

// Normalize lowercases a content type and strips its parameters.
func Normalize(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
