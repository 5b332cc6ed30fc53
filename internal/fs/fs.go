// Package fs provides filesystem adapters that implement manifest service interfaces.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eykd/tck/internal/cargotoml"
	"github.com/eykd/tck/internal/domain"
	"github.com/eykd/tck/internal/names"
)

// ErrManifestNotFound is returned when no manifest exists in the working
// directory or any of its parents.
var ErrManifestNotFound = errors.New("no manifest found")

// OSProber implements domain.PathProber using os.Stat. Symlinks are
// followed; any stat failure is reported as missing.
type OSProber struct{}

// Probe classifies the entry at path.
func (OSProber) Probe(path string) domain.EntryType {
	info, err := os.Stat(path)
	if err != nil {
		return domain.EntryMissing
	}
	if info.IsDir() {
		return domain.EntryDir
	}
	return domain.EntryFile
}

// ManifestFile implements manifest.ManifestReader and manifest.ManifestWriter
// for a Cargo-style manifest on disk.
type ManifestFile struct {
	Path string
}

// ReadImpl reads and parses the manifest.
func (f *ManifestFile) ReadImpl(_ context.Context) (domain.Manifest, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("reading manifest %s: %w", f.Path, err)
	}
	return cargotoml.Parse(data, f.Path)
}

// Read delegates to ReadImpl.
func (f *ManifestFile) Read(ctx context.Context) (domain.Manifest, error) {
	return f.ReadImpl(ctx)
}

// SetTargetPathImpl rewrites one target's path and replaces the manifest
// atomically.
func (f *ManifestFile) SetTargetPathImpl(_ context.Context, target domain.Target, newPath string) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", f.Path, err)
	}
	out, err := cargotoml.SetTargetPath(data, target, newPath)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.Path, out)
}

// SetTargetPath delegates to SetTargetPathImpl.
func (f *ManifestFile) SetTargetPath(ctx context.Context, target domain.Target, newPath string) error {
	return f.SetTargetPathImpl(ctx, target, newPath)
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tck-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// NameAdapter implements manifest.NameKeyer using the names package.
type NameAdapter struct{}

// Key returns the normalized comparison form of a target name.
func (NameAdapter) Key(name string) string { return names.Key(name) }

// FindManifestImpl walks up from dir looking for a file called filename and
// returns its path.
func FindManifestImpl(dir, filename string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(dir, filename)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrManifestNotFound, filename)
		}
		dir = parent
	}
}
