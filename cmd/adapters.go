package cmd

import (
	"context"

	"github.com/eykd/tck/internal/domain"
	"github.com/eykd/tck/internal/manifest"
)

// manifestServicer abstracts the manifest.Service methods used by adapters.
type manifestServicer interface {
	Check(ctx context.Context) (*manifest.CheckResult, error)
	Fix(ctx context.Context, apply bool) (*manifest.FixResult, error)
	ValidatePath(ctx context.Context, path, targetName string, kind domain.TargetKind) error
}

// serviceFactory builds a service from the flag and configuration state at
// the time a command runs.
type serviceFactory func(ctx context.Context) (manifestServicer, error)

func (f serviceFactory) build(ctx context.Context) (manifestServicer, error) {
	if f == nil {
		return nil, ErrNotInProject
	}
	return f(ctx)
}

// --- checkAdapter ---

type checkAdapter struct {
	factory serviceFactory
}

func (a *checkAdapter) Check(ctx context.Context) (*CheckResult, error) {
	svc, err := a.factory.build(ctx)
	if err != nil {
		return nil, err
	}
	svcResult, err := svc.Check(ctx)
	if err != nil {
		return nil, &ContextError{Op: "check", Err: err}
	}

	findings := make([]CheckFinding, len(svcResult.Findings))
	for i, f := range svcResult.Findings {
		findings[i] = convertFinding(f)
	}
	return &CheckResult{Manifest: svcResult.Manifest.Path, Findings: findings}, nil
}

// --- fixAdapter ---

type fixAdapter struct {
	factory serviceFactory
}

func (a *fixAdapter) Fix(ctx context.Context, apply bool) (*FixResult, error) {
	svc, err := a.factory.build(ctx)
	if err != nil {
		return nil, err
	}
	svcResult, err := svc.Fix(ctx, apply)
	if err != nil {
		return nil, &ContextError{Op: "fix", Err: err}
	}

	fixes := make([]FixAction, len(svcResult.Fixes))
	for i, f := range svcResult.Fixes {
		fixes[i] = FixAction{
			Target: f.Target,
			Kind:   f.Kind.String(),
			Old:    f.Old,
			New:    f.New,
		}
	}

	unfixed := make([]CheckFinding, len(svcResult.Unfixed))
	for i, f := range svcResult.Unfixed {
		unfixed[i] = convertFinding(f)
	}

	return &FixResult{
		Manifest: svcResult.Manifest,
		Fixes:    fixes,
		Unfixed:  unfixed,
		Applied:  svcResult.Applied,
	}, nil
}

// --- validateAdapter ---

type validateAdapter struct {
	factory serviceFactory
}

// Validate returns a nil finding when the path is a source file.
func (a *validateAdapter) Validate(ctx context.Context, path, name, kind string) (*CheckFinding, error) {
	k, err := domain.ParseTargetKind(kind)
	if err != nil {
		return nil, err
	}
	svc, err := a.factory.build(ctx)
	if err != nil {
		return nil, err
	}

	verr := svc.ValidatePath(ctx, path, name, k)
	if verr == nil {
		return nil, nil
	}
	f, ok := domain.FindingFromError(verr)
	if !ok {
		return nil, verr
	}
	finding := convertFinding(f)
	return &finding, nil
}

// convertFinding converts a domain.Finding to a cmd.CheckFinding.
func convertFinding(f domain.Finding) CheckFinding {
	return CheckFinding{
		Type:       FindingType(f.Type),
		Severity:   Severity(f.Severity),
		Message:    f.Message,
		Path:       f.Path,
		Target:     f.Target,
		Kind:       f.Kind.String(),
		Suggestion: f.Suggestion,
	}
}
