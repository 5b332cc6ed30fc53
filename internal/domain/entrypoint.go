package domain

import "strings"

// DefaultSourceExt is the source-file extension used when none is configured.
const DefaultSourceExt = "rs"

// Entrypoint stems a build system falls back to when no path is given.
const (
	StemMain = "main"
	StemLib  = "lib"
)

// EntrypointStem returns the conventional entrypoint stem for the kind, or
// "" when the kind has no convention.
func EntrypointStem(k TargetKind) string {
	switch k {
	case KindLib, KindExampleLib:
		return StemLib
	case KindBin, KindTest, KindExampleBin, KindBench:
		return StemMain
	default:
		return ""
	}
}

// EntrypointFile joins a stem and extension into a filename. A leading dot
// on ext is tolerated.
func EntrypointFile(stem, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
