package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/create-fun-cli/create-fun/internal/core/downloader"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// ErrNoLatest is returned when a lookup answers without a usable version.
var ErrNoLatest = errors.New("no latest version in response")

// RegistryLookup reads the "latest" dist-tag from an npm-compatible registry.
type RegistryLookup struct {
	BaseURL string
}

func (RegistryLookup) Name() string { return "registry" }

// Latest performs a single GET of <BaseURL>/-/package/<pkg>/dist-tags.
func (r RegistryLookup) Latest(ctx context.Context, pkg string) (string, error) {
	if pkg == "" {
		return "", errors.New("package name is required")
	}
	base := strings.TrimSuffix(r.BaseURL, "/")
	if base == "" {
		base = DefaultRegistry
	}
	url := fmt.Sprintf("%s/-/package/%s/dist-tags", base, pkg)

	body, err := downloader.DownloadFile(ctx, url)
	if err != nil {
		return "", err
	}

	var tags struct {
		Latest string `json:"latest"`
	}
	if err := json.Unmarshal(body, &tags); err != nil {
		return "", fmt.Errorf("failed to unmarshal dist-tags from %s: %w", url, err)
	}
	if strings.TrimSpace(tags.Latest) == "" {
		return "", fmt.Errorf("%s: %w", url, ErrNoLatest)
	}
	return tags.Latest, nil
}

// NpmViewLookup shells out to `npm view <pkg> version`.
type NpmViewLookup struct {
	// Command defaults to "npm".
	Command string
}

func (NpmViewLookup) Name() string { return "npm-view" }

func (n NpmViewLookup) Latest(ctx context.Context, pkg string) (string, error) {
	bin := n.Command
	if bin == "" {
		bin = "npm"
	}
	out, err := exec.CommandContext(ctx, bin, "view", pkg, "version").Output()
	if err != nil {
		return "", fmt.Errorf("running %s view %s version: %w", bin, pkg, err)
	}
	latest := strings.TrimSpace(string(out))
	if latest == "" {
		return "", fmt.Errorf("%s view %s version: %w", bin, pkg, ErrNoLatest)
	}
	return latest, nil
}

// ReleaseDetector returns the latest release version of an owner/repo slug.
type ReleaseDetector func(ctx context.Context, slug string) (version string, found bool, err error)

// ReleaseLookup asks GitHub releases for the newest version. The package
// name argument is ignored; the repository slug identifies the project.
type ReleaseLookup struct {
	Repository string
	Detect     ReleaseDetector
}

func (ReleaseLookup) Name() string { return "github-release" }

func (r ReleaseLookup) Latest(ctx context.Context, _ string) (string, error) {
	parts := strings.Split(r.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid repository '%s', expected 'owner/repo'", r.Repository)
	}
	detect := r.Detect
	if detect == nil {
		detect = detectGitHubRelease
	}
	latest, found, err := detect(ctx, r.Repository)
	if err != nil {
		return "", fmt.Errorf("detecting latest release of %s: %w", r.Repository, err)
	}
	if !found || latest == "" {
		return "", fmt.Errorf("release of %s: %w", r.Repository, ErrNoLatest)
	}
	return latest, nil
}

func detectGitHubRelease(ctx context.Context, slug string) (string, bool, error) {
	ghSource, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return "", false, fmt.Errorf("creating GitHub source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: ghSource})
	if err != nil {
		return "", false, fmt.Errorf("initializing updater: %w", err)
	}
	release, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(slug))
	if err != nil || !found {
		return "", found, err
	}
	return release.Version(), true, nil
}
