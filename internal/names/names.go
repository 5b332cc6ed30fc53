// Package names normalizes target names for comparison and derives the
// default library name from a package name.
package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key returns the form of a target name used to detect duplicates. Names
// are NFC-normalized and trimmed so that visually identical spellings
// collide; case is preserved.
func Key(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Equal reports whether two target names are the same after normalization.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// LibName derives the library target name from a package name.
func LibName(pkg string) string {
	return strings.ReplaceAll(Key(pkg), "-", "_")
}
