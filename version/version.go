package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
)

const (
	// ModulePath is the import path of the orchid module.
	ModulePath = "github.com/noel-archive/orchid"
	// Homepage is advertised in the default user-agent.
	Homepage = "https://github.com/noel-archive/orchid"
)

// Version is set at build time using -ldflags. Empty means "read build info".
var Version = ""

var (
	resolveOnce sync.Once
	resolved    string
)

// Get returns the orchid version, "dev" when it cannot be determined.
func Get() string {
	if Version != "" {
		return Version
	}
	resolveOnce.Do(func() {
		resolved = fromBuildInfo()
	})
	return resolved
}

func fromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if info.Main.Path == ModulePath {
		return normalize(info.Main.Version)
	}
	for _, dep := range info.Deps {
		if dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return normalize(dep.Replace.Version)
		}
		return normalize(dep.Version)
	}
	return "dev"
}

func normalize(v string) string {
	if v == "" || v == "(devel)" {
		return "dev"
	}
	return strings.TrimPrefix(v, "v")
}

// UserAgent returns the default user-agent, e.g.
// "orchid (v1.4.0, https://github.com/noel-archive/orchid)".
func UserAgent() string {
	return Format("orchid", Get(), Homepage)
}

// Format builds a user-agent in orchid's "name (vX, url)" shape.
func Format(name, ver, url string) string {
	v := strings.TrimPrefix(ver, "v")
	if v != "" && v[0] >= '0' && v[0] <= '9' {
		v = "v" + v
	}
	if url == "" {
		return fmt.Sprintf("%s (%s)", name, v)
	}
	return fmt.Sprintf("%s (%s, %s)", name, v, url)
}
