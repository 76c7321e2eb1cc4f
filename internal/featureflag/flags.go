// Package featureflag keeps the old flag call sites compiling. Every flag has
// been rolled out, so every lookup reports enabled.
package featureflag

// Enabled reports whether the named feature is on. It always is.
func Enabled(string) bool { return true }

// Snapshot returns the state of each named flag.
func Snapshot(names ...string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = Enabled(n)
	}
	return out
}
