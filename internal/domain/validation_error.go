package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by ValidationError.Is.
var (
	ErrNotFound         = errors.New("target source not found")
	ErrDirectoryNotFile = errors.New("target source is a directory")
)

// ValidationErrorKind distinguishes the two ways a source path can fail.
type ValidationErrorKind int

const (
	// NotFound means nothing exists at the path.
	NotFound ValidationErrorKind = iota + 1
	// DirectoryNotFile means the path names a directory.
	DirectoryNotFile
)

// String returns the kind as a snake_case word.
func (k ValidationErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case DirectoryNotFile:
		return "directory_not_file"
	default:
		return "unknown"
	}
}

// ValidationError describes why a target's source path was rejected.
// Suggestions holds entrypoint files that exist under a directory path and
// is only populated for DirectoryNotFile.
type ValidationError struct {
	Kind        ValidationErrorKind
	Path        string
	TargetName  string
	TargetKind  TargetKind
	Suggestions []string
}

// Error renders the user-facing diagnostic.
func (e *ValidationError) Error() string {
	switch e.Kind {
	case NotFound:
		return fmt.Sprintf("can't find %s `%s` at path `%s`",
			e.TargetKind.Description(), e.TargetName, e.Path)
	case DirectoryNotFile:
		msg := fmt.Sprintf("path `%s` for %s `%s` is a directory, but a source file was expected.",
			e.Path, e.TargetKind.Description(), e.TargetName)
		if help := e.Help(); help != "" {
			msg += "\n" + help
		}
		return msg
	default:
		return fmt.Sprintf("invalid source path `%s` for %s `%s`",
			e.Path, e.TargetKind.Description(), e.TargetName)
	}
}

// Help returns the remediation line, or "" when there is nothing to suggest.
func (e *ValidationError) Help() string {
	if len(e.Suggestions) == 0 {
		return ""
	}
	quoted := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		quoted[i] = "`" + s + "`"
	}
	return "help: specify the path to the intended entrypoint file instead: " + strings.Join(quoted, " or ")
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case NotFound:
		return target == ErrNotFound
	case DirectoryNotFile:
		return target == ErrDirectoryNotFile
	}
	return false
}
