package domain

import "errors"

// FindingSeverity indicates how severe a finding is.
type FindingSeverity string

const (
	// SeverityError indicates a finding that must be resolved.
	SeverityError FindingSeverity = "error"
	// SeverityWarning indicates a finding that should be reviewed.
	SeverityWarning FindingSeverity = "warning"
)

// Finding type constants identify the kind of issue found.
const (
	FindingMissingSource       = "missing_source"
	FindingDirectorySource     = "directory_source"
	FindingDuplicateTargetName = "duplicate_target_name"
	FindingSharedSourcePath    = "shared_source_path"
)

// Finding represents a problem discovered while checking a manifest.
// Suggestion is set when a directory source has a conventional entrypoint.
type Finding struct {
	Type       string
	Severity   FindingSeverity
	Message    string
	Path       string
	Target     string
	Kind       TargetKind
	Suggestion string
}

// FindingFromError converts a validation failure into a Finding. It returns
// false when err is not a *ValidationError.
func FindingFromError(err error) (Finding, bool) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return Finding{}, false
	}
	f := Finding{
		Severity: SeverityError,
		Message:  ve.Error(),
		Path:     ve.Path,
		Target:   ve.TargetName,
		Kind:     ve.TargetKind,
	}
	switch ve.Kind {
	case NotFound:
		f.Type = FindingMissingSource
	default:
		f.Type = FindingDirectorySource
		if len(ve.Suggestions) > 0 {
			f.Suggestion = ve.Suggestions[0]
		}
	}
	return f, true
}
