// Package serializer maps response content types to body decoders.
//
// A Registry holds exact matchers (a media type such as "application/json"),
// pattern matchers (a *regexp.Regexp) and the wildcard "*". Resolution
// normalizes the content type (lowercased, parameters stripped), then tries
// exact matchers, then patterns in registration order, then the wildcard.
//
// NewRegistry comes with JSON bound to application/json and Text bound to
// "*". YAML, TOML and XML decoders are provided but must be registered:
//
//	reg := serializer.NewRegistry()
//	reg.RegisterPattern(regexp.MustCompile(`^application/(x-)?yaml$`), serializer.YAML{})
package serializer
