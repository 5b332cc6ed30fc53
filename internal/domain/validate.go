package domain

import (
	"path/filepath"
	"strings"
)

// EntryType is the result of probing a single path.
type EntryType int

const (
	// EntryMissing means nothing could be found at the path. Metadata read
	// failures are reported as missing too.
	EntryMissing EntryType = iota
	// EntryFile means the path exists and is not a directory.
	EntryFile
	// EntryDir means the path is a directory.
	EntryDir
)

// PathProber answers read-only existence queries against a filesystem.
type PathProber interface {
	Probe(path string) EntryType
}

// SourceValidator checks that a target's source path names a file.
// It holds no mutable state and is safe for concurrent use.
type SourceValidator struct {
	prober PathProber
	ext    string
}

// NewSourceValidator creates a SourceValidator that suggests entrypoints
// with the given extension. An empty ext selects DefaultSourceExt.
func NewSourceValidator(prober PathProber, ext string) *SourceValidator {
	if ext == "" {
		ext = DefaultSourceExt
	}
	return &SourceValidator{prober: prober, ext: ext}
}

// Validate returns nil when path exists and is not a directory. Otherwise
// it returns a *ValidationError of kind NotFound or DirectoryNotFile.
// path is used exactly as given.
func (v *SourceValidator) Validate(path, targetName string, kind TargetKind) error {
	switch v.prober.Probe(path) {
	case EntryMissing:
		return &ValidationError{
			Kind:       NotFound,
			Path:       path,
			TargetName: targetName,
			TargetKind: kind,
		}
	case EntryDir:
		return &ValidationError{
			Kind:        DirectoryNotFile,
			Path:        path,
			TargetName:  targetName,
			TargetKind:  kind,
			Suggestions: v.suggest(path, kind),
		}
	default:
		return nil
	}
}

// suggest probes only the entrypoint conventional for kind.
func (v *SourceValidator) suggest(dir string, kind TargetKind) []string {
	stem := EntrypointStem(kind)
	if stem == "" {
		return nil
	}
	candidate := joinEntry(dir, EntrypointFile(stem, v.ext))
	if v.prober.Probe(candidate) == EntryMissing {
		return nil
	}
	return []string{candidate}
}

// joinEntry appends file to dir without cleaning dir, so the suggestion
// keeps the path exactly as the user wrote it.
func joinEntry(dir, file string) string {
	if dir == "" {
		return file
	}
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + file
	}
	return dir + string(filepath.Separator) + file
}
