// Package materializer turns a resolved template source into a project
// directory on disk.
package materializer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/create-fun-cli/create-fun/internal/core/template"
)

// ErrTargetExists is returned when the target directory is already present
// at the moment it is claimed.
var ErrTargetExists = errors.New("target directory already exists")

// Fetcher writes a template's file tree into an existing, empty directory.
type Fetcher interface {
	Fetch(ctx context.Context, target string, src template.Source) error
}

// Materializer claims the target directory, fetches the template into it,
// and removes the template's version-control metadata.
type Materializer struct {
	Git     Fetcher
	Archive Fetcher
	Log     *zap.Logger
}

// New returns a Materializer with the default git and archive fetchers.
func New(log *zap.Logger) *Materializer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Materializer{
		Git:     &GitFetcher{},
		Archive: &ArchiveFetcher{Log: log},
		Log:     log,
	}
}

// Materialize populates target from src. On a fetch failure the directory it
// created is removed again. Failing to remove .git afterwards only logs a
// warning.
func (m *Materializer) Materialize(ctx context.Context, target string, src template.Source) error {
	fetcher, err := m.fetcherFor(src)
	if err != nil {
		return err
	}

	if err := claim(target); err != nil {
		return err
	}

	m.Log.Debug("fetching template",
		zap.String("source", src.String()),
		zap.String("kind", src.Kind.String()),
		zap.String("target", target))

	if err := fetcher.Fetch(ctx, target, src); err != nil {
		if cleanupErr := os.RemoveAll(target); cleanupErr != nil {
			m.Log.Warn("failed to clean up partially written directory", zap.String("target", target), zap.Error(cleanupErr))
		}
		return fmt.Errorf("fetching %s into %s: %w", src, target, err)
	}

	gitDir := filepath.Join(target, ".git")
	if err := os.RemoveAll(gitDir); err != nil {
		m.Log.Warn("could not remove version-control metadata", zap.String("path", gitDir), zap.Error(err))
	}
	return nil
}

func (m *Materializer) fetcherFor(src template.Source) (Fetcher, error) {
	var f Fetcher
	switch src.Kind {
	case template.KindGit:
		f = m.Git
	case template.KindGitHubArchive:
		f = m.Archive
	}
	if f == nil || src.Location == "" {
		return nil, fmt.Errorf("no fetcher for template source %q (%s)", src.String(), src.Kind)
	}
	return f, nil
}

// claim creates target with os.Mkdir so that a directory created by someone
// else after the existence check is still detected.
func claim(target string) error {
	if parent := filepath.Dir(target); parent != "." {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return fmt.Errorf("creating parent directory '%s': %w", parent, err)
		}
	}
	if err := os.Mkdir(target, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", target, ErrTargetExists)
		}
		return fmt.Errorf("creating directory '%s': %w", target, err)
	}
	return nil
}
