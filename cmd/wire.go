package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/eykd/tck/internal/config"
	"github.com/eykd/tck/internal/domain"
	"github.com/eykd/tck/internal/fs"
	"github.com/eykd/tck/internal/lock"
	"github.com/eykd/tck/internal/logging"
	"github.com/eykd/tck/internal/manifest"
)

// errReader stands in for a manifest that could not be located, so that
// commands which never read the manifest still work.
type errReader struct {
	err error
}

func (r errReader) Read(context.Context) (domain.Manifest, error) {
	return domain.Manifest{}, r.err
}

// wireService loads configuration, locates the manifest and assembles a
// manifest.Service with its filesystem adapters.
func wireService(ctx context.Context) (manifestServicer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg, source, err := config.Load(ctx, config.LoadOptions{Dir: cwd, ConfigFile: configFile})
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(&cfg)

	logger := logging.New(os.Stderr, GetVerbose())
	if source != "" {
		logger.Debug("loaded config", "path", source)
	}

	opts := []manifest.Option{
		manifest.WithLogger(logger),
		manifest.WithNameKeyer(fs.NameAdapter{}),
		manifest.WithWorkers(cfg.Workers),
		manifest.WithFailFast(cfg.FailFast),
	}

	var reader manifest.ManifestReader
	manifestPath, err := resolveManifest(cwd, cfg.Manifest)
	if err != nil {
		logger.Debug("manifest unavailable", "err", err)
		reader = errReader{err: err}
	} else {
		file := &fs.ManifestFile{Path: manifestPath}
		reader = file
		opts = append(opts,
			manifest.WithWriter(file),
			manifest.WithLocker(lock.ForManifest(manifestPath)),
		)
	}

	validator := domain.NewSourceValidator(fs.OSProber{}, cfg.SourceExt)
	return manifest.NewService(reader, validator, opts...), nil
}

// applyFlagOverrides lets explicitly given flags win over configuration.
func applyFlagOverrides(cfg *config.Config) {
	if failFastSet {
		cfg.FailFast = failFast
	}
}

// resolveManifest honours --manifest verbatim and otherwise searches upward
// from cwd for the configured manifest filename.
func resolveManifest(cwd, filename string) (string, error) {
	if manifestFlag != "" {
		return manifestFlag, nil
	}
	path, err := fs.FindManifestImpl(cwd, filename)
	if errors.Is(err, fs.ErrManifestNotFound) {
		return "", fmt.Errorf("%w (looked for %s)", ErrNotInProject, filename)
	}
	return path, err
}
