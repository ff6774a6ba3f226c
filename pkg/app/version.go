package app

import (
	"strconv"
	"strings"
)

// Version is the build's semantic version, overridable at link time
// with -ldflags "-X github.com/hanebox/ekphos/pkg/app.Version=...".
var Version = "dev"

// CompareVersions compares semver-ish strings with optional leading 'v'
// and an optional pre-release suffix (e.g. v1.2.3-alpha). Pre-release
// versions sort lower than their corresponding release per SemVer.
// Returns 1 if v1>v2, -1 if v1<v2, 0 if equal; falls back to
// lexicographic comparison if either string fails to parse as numeric
// dotted components. No network call is involved. Nothing in the CLI
// calls it: the -v/--version flag only prints Version.
func CompareVersions(v1, v2 string) int {
	type parsed struct {
		parts      []int
		prerelease bool
		preLabel   string
	}

	parse := func(v string) *parsed {
		v = strings.TrimPrefix(v, "v")
		prerelease := false
		preLabel := ""
		if idx := strings.Index(v, "-"); idx != -1 {
			prerelease = true
			preLabel = v[idx+1:]
			v = v[:idx]
		}
		fields := strings.Split(v, ".")
		res := make([]int, 3)
		for i := 0; i < len(res) && i < len(fields); i++ {
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil
			}
			res[i] = n
		}
		return &parsed{parts: res, prerelease: prerelease, preLabel: preLabel}
	}

	p1, p2 := parse(v1), parse(v2)
	if p1 != nil && p2 != nil {
		for i := 0; i < 3; i++ {
			if p1.parts[i] != p2.parts[i] {
				if p1.parts[i] > p2.parts[i] {
					return 1
				}
				return -1
			}
		}
		if p1.prerelease != p2.prerelease {
			if p1.prerelease {
				return -1
			}
			return 1
		}
		if p1.preLabel != p2.preLabel {
			if p1.preLabel > p2.preLabel {
				return 1
			}
			return -1
		}
		return 0
	}

	v1, v2 = strings.TrimPrefix(v1, "v"), strings.TrimPrefix(v2, "v")
	switch {
	case v1 > v2:
		return 1
	case v1 < v2:
		return -1
	default:
		return 0
	}
}
