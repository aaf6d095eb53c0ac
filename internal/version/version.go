package version

import "strings"

var version = "dev"

// String returns the build version for the current binary.
func String() string {
	return version
}

// FormatVersion returns a display-friendly version string with a "v" prefix
// (e.g. "0.1.0" → "v0.1.0"). Special values like "dev" and empty strings are
// returned as-is.
func FormatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
