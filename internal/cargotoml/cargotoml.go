// Package cargotoml reads build targets out of a Cargo-style manifest and
// rewrites target paths in place.
package cargotoml

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/eykd/tck/internal/domain"
	"github.com/eykd/tck/internal/names"
)

// BuildScriptName is the target name given to a package build script.
const BuildScriptName = "build-script-build"

// ErrTargetNotFound is returned when a rewrite names a target the manifest
// does not declare.
var ErrTargetNotFound = errors.New("target not declared in manifest")

// libCrateTypes are the crate types that make an example a library.
var libCrateTypes = []string{"lib", "rlib", "dylib", "cdylib", "staticlib", "proc-macro"}

type rawPackage struct {
	Name  string `toml:"name"`
	Build any    `toml:"build"`
}

type rawTarget struct {
	Name      string   `toml:"name"`
	Path      string   `toml:"path"`
	CrateType []string `toml:"crate-type"`
}

type rawManifest struct {
	Package *rawPackage `toml:"package"`
	Lib     *rawTarget  `toml:"lib"`
	Bin     []rawTarget `toml:"bin"`
	Test    []rawTarget `toml:"test"`
	Example []rawTarget `toml:"example"`
	Bench   []rawTarget `toml:"bench"`
}

// Parse decodes manifest data read from manifestPath. Only targets that
// declare an explicit path are returned. Relative paths are resolved
// against the manifest's directory without further normalization.
func Parse(data []byte, manifestPath string) (domain.Manifest, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return domain.Manifest{}, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}

	dir := filepath.Dir(manifestPath)
	m := domain.Manifest{Path: manifestPath, Dir: dir}
	if raw.Package != nil {
		m.Package = raw.Package.Name
	}

	add := func(t rawTarget, kind domain.TargetKind, defaultName string) {
		if t.Path == "" {
			return
		}
		name := t.Name
		if name == "" {
			name = defaultName
		}
		if name == "" {
			name = stem(t.Path)
		}
		m.Targets = append(m.Targets, domain.Target{
			Name:         name,
			Kind:         kind,
			Path:         t.Path,
			ResolvedPath: resolve(dir, t.Path),
		})
	}

	if raw.Lib != nil {
		add(*raw.Lib, domain.KindLib, names.LibName(m.Package))
	}
	for _, t := range raw.Bin {
		add(t, domain.KindBin, "")
	}
	for _, t := range raw.Example {
		add(t, exampleKind(t.CrateType), "")
	}
	for _, t := range raw.Test {
		add(t, domain.KindTest, "")
	}
	for _, t := range raw.Bench {
		add(t, domain.KindBench, "")
	}
	if raw.Package != nil {
		if build, ok := raw.Package.Build.(string); ok {
			add(rawTarget{Name: BuildScriptName, Path: build}, domain.KindCustomBuild, "")
		}
	}

	return m, nil
}

// SetTargetPath returns data with the path of target replaced by newPath.
// The table is matched on both name and declared path, so targets that
// share a name are rewritten independently. Comments and key order are not
// preserved.
func SetTargetPath(data []byte, target domain.Target, newPath string) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	table, err := findTargetTable(doc, target)
	if err != nil {
		return nil, err
	}
	if table == nil {
		pkg, _ := doc["package"].(map[string]any)
		pkg["build"] = newPath
	} else {
		// A name inferred from the old path would change with the path.
		if _, ok := table["name"]; !ok && target.Kind != domain.KindLib {
			table["name"] = target.Name
		}
		table["path"] = newPath
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return out, nil
}

// findTargetTable locates the table holding the target's path. A nil table
// with a nil error means the target is the package build script.
func findTargetTable(doc map[string]any, target domain.Target) (map[string]any, error) {
	notFound := fmt.Errorf("%w: %s `%s` at `%s`", ErrTargetNotFound, target.Kind.Description(), target.Name, target.Path)

	switch target.Kind {
	case domain.KindLib:
		lib, ok := doc["lib"].(map[string]any)
		if !ok {
			return nil, notFound
		}
		if p, _ := lib["path"].(string); p != target.Path {
			return nil, notFound
		}
		return lib, nil
	case domain.KindCustomBuild:
		pkg, ok := doc["package"].(map[string]any)
		if !ok {
			return nil, notFound
		}
		if build, _ := pkg["build"].(string); build == "" || build != target.Path {
			return nil, notFound
		}
		return nil, nil
	}

	items, _ := doc[sectionFor(target.Kind)].([]any)
	for _, item := range items {
		table, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p, _ := table["path"].(string)
		if p != target.Path {
			continue
		}
		n, _ := table["name"].(string)
		if n == "" {
			n = stem(p)
		}
		if names.Equal(n, target.Name) {
			return table, nil
		}
	}
	return nil, notFound
}

func sectionFor(kind domain.TargetKind) string {
	switch kind {
	case domain.KindBin:
		return "bin"
	case domain.KindTest:
		return "test"
	case domain.KindExampleBin, domain.KindExampleLib:
		return "example"
	case domain.KindBench:
		return "bench"
	}
	return ""
}

func exampleKind(crateTypes []string) domain.TargetKind {
	for _, ct := range crateTypes {
		if slices.Contains(libCrateTypes, ct) {
			return domain.KindExampleLib
		}
	}
	return domain.KindExampleBin
}

// resolve joins a manifest-relative path onto dir, leaving absolute paths
// untouched.
func resolve(dir, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || dir == "" || dir == "." {
		return p
	}
	return dir + string(filepath.Separator) + p
}

func stem(p string) string {
	base := filepath.Base(filepath.FromSlash(p))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
