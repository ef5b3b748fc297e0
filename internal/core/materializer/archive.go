package materializer

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/create-fun-cli/create-fun/internal/core/downloader"
	"github.com/create-fun-cli/create-fun/internal/core/hasher"
	"github.com/create-fun-cli/create-fun/internal/core/template"
)

// DefaultArchiveBaseURL serves GitHub repository tarballs.
const DefaultArchiveBaseURL = "https://codeload.github.com"

// ArchiveFetcher downloads a GitHub tarball and unpacks it without its
// top-level "<repo>-<ref>/" directory.
type ArchiveFetcher struct {
	BaseURL string
	Log     *zap.Logger
}

func (a *ArchiveFetcher) Fetch(ctx context.Context, target string, src template.Source) error {
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	owner, repo := src.Owner(), src.Repo()
	if owner == "" || repo == "" {
		return fmt.Errorf("archive source %q is not owner/repo", src.Location)
	}
	ref := src.Ref
	if ref == "" {
		ref = "HEAD"
	}
	base := strings.TrimSuffix(a.BaseURL, "/")
	if base == "" {
		base = DefaultArchiveBaseURL
	}
	archiveURL := fmt.Sprintf("%s/%s/%s/tar.gz/%s", base, owner, repo, ref)

	tmp, err := os.CreateTemp("", "create-fun-*.tar.gz")
	if err != nil {
		return fmt.Errorf("creating temporary archive file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	digest := hasher.NewSHA256()
	n, err := downloader.DownloadTo(ctx, archiveURL, io.MultiWriter(tmp, digest))
	if err != nil {
		return err
	}
	// Shown with --verbose so a fetched template can be matched to a release.
	log.Debug("downloaded template archive",
		zap.String("url", archiveURL),
		zap.Int64("bytes", n),
		zap.String("digest", digest.Sum()))

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding archive: %w", err)
	}
	return extractTarGz(tmp, target)
}

// extractTarGz unpacks r into dest, dropping the first path component of
// every entry. Entries escaping dest are rejected.
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		rel := stripFirstComponent(hdr.Name)
		if rel == "" {
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		if !within(root, path) {
			return fmt.Errorf("archive entry %q escapes the target directory", hdr.Name)
		}
		if err := noSymlinkOnPath(root, path); err != nil {
			return fmt.Errorf("archive entry %q: %w", hdr.Name, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(path, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) {
				return fmt.Errorf("archive entry %q links to absolute path %q", hdr.Name, hdr.Linkname)
			}
			if !within(root, filepath.Join(filepath.Dir(path), filepath.FromSlash(hdr.Linkname))) {
				return fmt.Errorf("archive entry %q links outside the target directory (%q)", hdr.Name, hdr.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, path); err != nil {
				return err
			}
		default:
			// pax headers and the like carry no files
		}
	}
}

// within reports whether path is root or lies below it. Both must be clean.
func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// noSymlinkOnPath fails if any existing component from root down to path,
// path included, is a symlink. Writing through one would land wherever the
// link points.
func noSymlinkOnPath(root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return err
	}
	cur := root
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("path passes through symlink %q", cur)
		}
	}
	return nil
}

func stripFirstComponent(name string) string {
	name = strings.TrimPrefix(name, "./")
	_, rest, found := strings.Cut(name, "/")
	if !found {
		return ""
	}
	return strings.TrimSuffix(rest, "/")
}

func writeFile(path string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing '%s': %w", path, err)
	}
	return f.Close()
}
