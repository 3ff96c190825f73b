// Package version reports the orchid library version and the default
// user-agent derived from it.
//
// When orchid is consumed as a module dependency the version is read from
// the embedding binary's build info. It can be pinned at link time:
//
//	go build -ldflags "-X github.com/noel-archive/orchid/version.Version=1.4.0"
package version
