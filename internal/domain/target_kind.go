package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownTargetKind is returned when a kind name is not recognized.
var ErrUnknownTargetKind = errors.New("unknown target kind")

// TargetKind classifies a build target.
type TargetKind int

const (
	// KindLib is the package library.
	KindLib TargetKind = iota
	// KindBin is an executable binary.
	KindBin
	// KindTest is an integration test.
	KindTest
	// KindExampleBin is an example built as an executable.
	KindExampleBin
	// KindExampleLib is an example built as a library.
	KindExampleLib
	// KindBench is a benchmark.
	KindBench
	// KindCustomBuild is the package build script.
	KindCustomBuild
)

var kindNames = map[TargetKind]string{
	KindLib:         "lib",
	KindBin:         "bin",
	KindTest:        "test",
	KindExampleBin:  "example",
	KindExampleLib:  "example-lib",
	KindBench:       "bench",
	KindCustomBuild: "custom-build",
}

// String returns the short machine name of the kind.
func (k TargetKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TargetKind(%d)", int(k))
}

// Description returns the human-readable label used in diagnostics.
func (k TargetKind) Description() string {
	switch k {
	case KindLib:
		return "lib"
	case KindBin:
		return "bin"
	case KindTest:
		return "integration-test"
	case KindExampleBin, KindExampleLib:
		return "example"
	case KindBench:
		return "bench"
	case KindCustomBuild:
		return "build script"
	default:
		return "target"
	}
}

// Group returns the namespace in which target names of this kind must be
// unique. Examples share one namespace whether built as bins or libs.
func (k TargetKind) Group() string {
	if k == KindExampleLib {
		return kindNames[KindExampleBin]
	}
	return k.String()
}

// ParseTargetKind converts a machine name back into a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTargetKind, s)
}

// TargetKindNames lists the accepted machine names in declaration order.
func TargetKindNames() []string {
	names := make([]string, 0, len(kindNames))
	for k := KindLib; k <= KindCustomBuild; k++ {
		names = append(names, kindNames[k])
	}
	return names
}
