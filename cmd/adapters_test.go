package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/eykd/tck/internal/domain"
	"github.com/eykd/tck/internal/manifest"
)

// stubManifestService provides controllable returns for adapter tests.
type stubManifestService struct {
	checkResult *manifest.CheckResult
	checkErr    error
	fixResult   *manifest.FixResult
	fixErr      error
	validateErr error

	// Captured calls
	fixApply     bool
	validatePath string
	validateName string
	validateKind domain.TargetKind
}

func (s *stubManifestService) Check(ctx context.Context) (*manifest.CheckResult, error) {
	return s.checkResult, s.checkErr
}

func (s *stubManifestService) Fix(ctx context.Context, apply bool) (*manifest.FixResult, error) {
	s.fixApply = apply
	return s.fixResult, s.fixErr
}

func (s *stubManifestService) ValidatePath(ctx context.Context, path, name string, kind domain.TargetKind) error {
	s.validatePath = path
	s.validateName = name
	s.validateKind = kind
	return s.validateErr
}

func factoryFor(svc manifestServicer) serviceFactory {
	return func(context.Context) (manifestServicer, error) { return svc, nil }
}

func TestCheckAdapter_ConvertsFindings(t *testing.T) {
	stub := &stubManifestService{checkResult: &manifest.CheckResult{
		Manifest: domain.Manifest{Path: "Cargo.toml"},
		Findings: []domain.Finding{{
			Type:       domain.FindingDirectorySource,
			Severity:   domain.SeverityError,
			Message:    "path `src` for lib `core` is a directory, but a source file was expected.",
			Path:       "src",
			Target:     "core",
			Kind:       domain.KindLib,
			Suggestion: "src/lib.rs",
		}},
	}}
	adapter := &checkAdapter{factory: factoryFor(stub)}

	result, err := adapter.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if result.Manifest != "Cargo.toml" {
		t.Errorf("Manifest = %q, want Cargo.toml", result.Manifest)
	}
	want := CheckFinding{
		Type:       FindingDirectorySource,
		Severity:   SeverityError,
		Message:    "path `src` for lib `core` is a directory, but a source file was expected.",
		Path:       "src",
		Target:     "core",
		Kind:       "lib",
		Suggestion: "src/lib.rs",
	}
	if len(result.Findings) != 1 || result.Findings[0] != want {
		t.Errorf("Findings = %+v, want [%+v]", result.Findings, want)
	}
}

func TestCheckAdapter_NilFactory(t *testing.T) {
	adapter := &checkAdapter{}

	_, err := adapter.Check(context.Background())

	if !errors.Is(err, ErrNotInProject) {
		t.Errorf("error = %v, want ErrNotInProject", err)
	}
}

func TestCheckAdapter_PropagatesServiceError(t *testing.T) {
	svcErr := errors.New("bad manifest")
	adapter := &checkAdapter{factory: factoryFor(&stubManifestService{checkErr: svcErr})}

	_, err := adapter.Check(context.Background())

	if !errors.Is(err, svcErr) {
		t.Errorf("error = %v, want %v", err, svcErr)
	}
	var ce *ContextError
	if !errors.As(err, &ce) || ce.Op != "check" {
		t.Errorf("error = %#v, want ContextError with op check", err)
	}
	if err.Error() != "check: bad manifest" {
		t.Errorf("Error() = %q, want %q", err.Error(), "check: bad manifest")
	}
}

func TestFixAdapter_WrapsServiceError(t *testing.T) {
	svcErr := errors.New("another tck process is already modifying this manifest")
	adapter := &fixAdapter{factory: factoryFor(&stubManifestService{fixErr: svcErr})}

	_, err := adapter.Fix(context.Background(), true)

	if !errors.Is(err, svcErr) {
		t.Errorf("error = %v, want %v", err, svcErr)
	}
	if FormatError(err) != "tck: fix: "+svcErr.Error()+"\n" {
		t.Errorf("FormatError() = %q", FormatError(err))
	}
}

func TestFixAdapter_ConvertsResult(t *testing.T) {
	stub := &stubManifestService{fixResult: &manifest.FixResult{
		Manifest: "Cargo.toml",
		Fixes:    []manifest.FixAction{{Target: "tool", Kind: domain.KindBin, Old: "src/tool", New: "src/tool/main.rs"}},
		Unfixed:  []domain.Finding{{Type: domain.FindingMissingSource, Severity: domain.SeverityError, Kind: domain.KindTest}},
		Applied:  true,
	}}
	adapter := &fixAdapter{factory: factoryFor(stub)}

	result, err := adapter.Fix(context.Background(), true)
	if err != nil {
		t.Fatalf("Fix() error = %v", err)
	}

	if !stub.fixApply {
		t.Error("apply flag not passed through")
	}
	if !result.Applied || result.Manifest != "Cargo.toml" {
		t.Errorf("result = %+v", result)
	}
	if len(result.Fixes) != 1 || result.Fixes[0] != (FixAction{Target: "tool", Kind: "bin", Old: "src/tool", New: "src/tool/main.rs"}) {
		t.Errorf("Fixes = %+v", result.Fixes)
	}
	if len(result.Unfixed) != 1 || result.Unfixed[0].Kind != "test" {
		t.Errorf("Unfixed = %+v", result.Unfixed)
	}
}

func TestValidateAdapter(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		validateErr error
		wantFinding FindingType
		wantErr     error
	}{
		{
			name: "valid path",
			kind: "bin",
		},
		{
			name:        "not found becomes finding",
			kind:        "test",
			validateErr: &domain.ValidationError{Kind: domain.NotFound, Path: "t.rs", TargetName: "t", TargetKind: domain.KindTest},
			wantFinding: FindingMissingSource,
		},
		{
			name:    "unknown kind",
			kind:    "plugin",
			wantErr: domain.ErrUnknownTargetKind,
		},
		{
			name:        "other errors propagate",
			kind:        "lib",
			validateErr: context.Canceled,
			wantErr:     context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubManifestService{validateErr: tt.validateErr}
			adapter := &validateAdapter{factory: factoryFor(stub)}

			finding, err := adapter.Validate(context.Background(), "t.rs", "t", tt.kind)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantFinding == "" {
				if finding != nil {
					t.Errorf("finding = %+v, want nil", finding)
				}
				return
			}
			if finding == nil || finding.Type != tt.wantFinding {
				t.Errorf("finding = %+v, want type %s", finding, tt.wantFinding)
			}
			if stub.validatePath != "t.rs" || stub.validateName != "t" {
				t.Errorf("captured (%q, %q), want (t.rs, t)", stub.validatePath, stub.validateName)
			}
		})
	}
}
