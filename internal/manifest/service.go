// Package manifest provides the application service that checks and fixes
// the target entrypoint paths declared in a build manifest.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/eykd/tck/internal/domain"
)

// DefaultWorkers bounds concurrent target validation when no option is given.
const DefaultWorkers = 8

// ErrNoWriter is returned when Fix is asked to apply changes but the
// service was built without a ManifestWriter.
var ErrNoWriter = errors.New("manifest writer not configured")

// ManifestReader abstracts loading the declared targets of a manifest.
type ManifestReader interface {
	Read(ctx context.Context) (domain.Manifest, error)
}

// ManifestWriter abstracts rewriting a single target's path.
type ManifestWriter interface {
	SetTargetPath(ctx context.Context, target domain.Target, newPath string) error
}

// SourceValidator abstracts the per-target source path check.
type SourceValidator interface {
	Validate(path, targetName string, kind domain.TargetKind) error
}

// Locker abstracts advisory lock acquisition for manifest rewrites.
type Locker interface {
	TryLock(ctx context.Context) error
	Unlock() error
}

// NameKeyer abstracts the normalization used to compare target names.
type NameKeyer interface {
	Key(name string) string
}

// Logger is the subset of a structured logger the service writes to.
type Logger interface {
	Debug(msg any, keyvals ...any)
}

type identityKeyer struct{}

func (identityKeyer) Key(name string) string { return name }

type nopLogger struct{}

func (nopLogger) Debug(any, ...any) {}

// Option configures a Service.
type Option func(*Service)

// WithWriter sets the writer used by Fix.
func WithWriter(w ManifestWriter) Option {
	return func(s *Service) { s.writer = w }
}

// WithLocker sets the lock held while Fix rewrites the manifest.
func WithLocker(l Locker) Option {
	return func(s *Service) { s.locker = l }
}

// WithNameKeyer sets the name normalization used for duplicate detection.
func WithNameKeyer(k NameKeyer) Option {
	return func(s *Service) { s.keyer = k }
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithWorkers bounds the number of targets validated at once. Values below
// one are ignored.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithFailFast makes Check validate targets in declaration order and stop
// at the first failure.
func WithFailFast(on bool) Option {
	return func(s *Service) { s.failFast = on }
}

// Service checks manifest targets and repairs directory paths.
type Service struct {
	reader    ManifestReader
	validator SourceValidator
	writer    ManifestWriter
	locker    Locker
	keyer     NameKeyer
	logger    Logger
	workers   int
	failFast  bool
}

// NewService creates a Service with the given dependencies.
func NewService(reader ManifestReader, validator SourceValidator, opts ...Option) *Service {
	s := &Service{
		reader:    reader,
		validator: validator,
		keyer:     identityKeyer{},
		logger:    nopLogger{},
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckResult holds the findings of a check run.
type CheckResult struct {
	Manifest domain.Manifest
	Findings []domain.Finding
}

// FixAction describes one path rewrite.
type FixAction struct {
	Target string
	Kind   domain.TargetKind
	Old    string
	New    string
}

// FixResult holds the rewrites performed or planned and the findings that
// have no automatic fix.
type FixResult struct {
	Fixes    []FixAction
	Unfixed  []domain.Finding
	Applied  bool
	Manifest string
}

// ValidatePath runs the source check for a single target outside any
// manifest.
func (s *Service) ValidatePath(ctx context.Context, path, targetName string, kind domain.TargetKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Debug("validating target", "name", targetName, "kind", kind, "path", path)
	return s.validator.Validate(path, targetName, kind)
}

// Check reads the manifest and validates every declared target. Findings
// are reported in declaration order, followed by duplicate-name findings.
func (s *Service) Check(ctx context.Context) (*CheckResult, error) {
	m, err := s.reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded manifest", "path", m.Path, "targets", len(m.Targets))

	var errs []error
	if s.failFast {
		errs, err = s.validateSequential(ctx, m.Targets)
	} else {
		errs, err = s.validateConcurrent(ctx, m.Targets)
	}
	if err != nil {
		return nil, err
	}

	var findings []domain.Finding
	for _, verr := range errs {
		if verr == nil {
			continue
		}
		f, ok := domain.FindingFromError(verr)
		if !ok {
			return nil, verr
		}
		findings = append(findings, f)
	}
	if !s.failFast || len(findings) == 0 {
		findings = append(findings, s.duplicateFindings(m)...)
		findings = append(findings, sharedPathFindings(m)...)
	}

	return &CheckResult{Manifest: m, Findings: findings}, nil
}

func (s *Service) validateConcurrent(ctx context.Context, targets []domain.Target) ([]error, error) {
	errs := make([]error, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.logger.Debug("validating target", "name", t.Name, "kind", t.Kind, "path", t.ResolvedPath)
			errs[i] = s.validator.Validate(t.ResolvedPath, t.Name, t.Kind)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return errs, nil
}

func (s *Service) validateSequential(ctx context.Context, targets []domain.Target) ([]error, error) {
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.logger.Debug("validating target", "name", t.Name, "kind", t.Kind, "path", t.ResolvedPath)
		if err := s.validator.Validate(t.ResolvedPath, t.Name, t.Kind); err != nil {
			return []error{err}, nil
		}
	}
	return nil, nil
}

// duplicateFindings reports every target whose normalized name repeats an
// earlier target in the same namespace.
func (s *Service) duplicateFindings(m domain.Manifest) []domain.Finding {
	type key struct{ group, name string }
	seen := make(map[key]bool)
	var findings []domain.Finding
	for _, t := range m.Targets {
		k := key{t.Kind.Group(), s.keyer.Key(t.Name)}
		if !seen[k] {
			seen[k] = true
			continue
		}
		desc := t.Kind.Description()
		findings = append(findings, domain.Finding{
			Type:     domain.FindingDuplicateTargetName,
			Severity: domain.SeverityError,
			Message: fmt.Sprintf("found duplicate %s name `%s`, but all %s targets must have a unique name",
				desc, t.Name, desc),
			Path:   m.Path,
			Target: t.Name,
			Kind:   t.Kind,
		})
	}
	return findings
}

// sharedPathFindings warns once for every resolved path that more than one
// target declares, in order of first declaration.
func sharedPathFindings(m domain.Manifest) []domain.Finding {
	users := make(map[string][]domain.Target)
	var order []string
	for _, t := range m.Targets {
		if _, ok := users[t.ResolvedPath]; !ok {
			order = append(order, t.ResolvedPath)
		}
		users[t.ResolvedPath] = append(users[t.ResolvedPath], t)
	}

	var findings []domain.Finding
	for _, p := range order {
		targets := users[p]
		if len(targets) < 2 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "file `%s` found to be present in multiple build targets:", p)
		for _, t := range targets {
			fmt.Fprintf(&b, "\n  * `%s` target `%s`", t.Kind, t.Name)
		}
		findings = append(findings, domain.Finding{
			Type:     domain.FindingSharedSourcePath,
			Severity: domain.SeverityWarning,
			Message:  b.String(),
			Path:     p,
			Target:   targets[0].Name,
			Kind:     targets[0].Kind,
		})
	}
	return findings
}

// Fix plans a path rewrite for every directory source that has a
// conventional entrypoint. Warnings are not carried into the result. When
// apply is true the rewrites are written while holding the manifest lock.
func (s *Service) Fix(ctx context.Context, apply bool) (*FixResult, error) {
	checked, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}

	result := &FixResult{Manifest: checked.Manifest.Path}
	type planned struct {
		target  domain.Target
		newPath string
	}
	var plan []planned
	for _, f := range checked.Findings {
		if f.Severity == domain.SeverityWarning {
			continue
		}
		t, ok := findTarget(checked.Manifest, f)
		if f.Type != domain.FindingDirectorySource || f.Suggestion == "" || !ok {
			result.Unfixed = append(result.Unfixed, f)
			continue
		}
		newPath := manifestRelative(checked.Manifest.Dir, t.Path, f.Suggestion)
		plan = append(plan, planned{target: t, newPath: newPath})
		result.Fixes = append(result.Fixes, FixAction{
			Target: t.Name,
			Kind:   t.Kind,
			Old:    t.Path,
			New:    newPath,
		})
	}

	if !apply || len(plan) == 0 {
		return result, nil
	}
	if s.writer == nil {
		return nil, ErrNoWriter
	}

	if s.locker != nil {
		if err := s.locker.TryLock(ctx); err != nil {
			return nil, err
		}
		defer s.locker.Unlock()
	}

	for _, p := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.logger.Debug("rewriting target path", "name", p.target.Name, "old", p.target.Path, "new", p.newPath)
		if err := s.writer.SetTargetPath(ctx, p.target, p.newPath); err != nil {
			return nil, fmt.Errorf("rewriting %s `%s`: %w", p.target.Kind.Description(), p.target.Name, err)
		}
	}
	result.Applied = true
	return result, nil
}

func findTarget(m domain.Manifest, f domain.Finding) (domain.Target, bool) {
	for _, t := range m.Targets {
		if t.Kind == f.Kind && t.Name == f.Target && t.ResolvedPath == f.Path {
			return t, true
		}
	}
	return domain.Target{}, false
}

// manifestRelative expresses suggestion the way the original path was
// written: absolute stays absolute, relative becomes slash-separated and
// relative to the manifest directory.
func manifestRelative(dir, original, suggestion string) string {
	if filepath.IsAbs(filepath.FromSlash(original)) {
		return suggestion
	}
	rel, err := filepath.Rel(dir, suggestion)
	if err != nil {
		return filepath.ToSlash(suggestion)
	}
	return filepath.ToSlash(rel)
}
