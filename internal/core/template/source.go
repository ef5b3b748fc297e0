package template

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// SourceKind selects how a template is fetched.
type SourceKind int

const (
	// KindGit is cloned with git: a remote URL or a local repository path.
	KindGit SourceKind = iota
	// KindGitHubArchive is downloaded as a tarball from GitHub.
	KindGitHubArchive
)

func (k SourceKind) String() string {
	if k == KindGitHubArchive {
		return "github-archive"
	}
	return "git"
}

// Source is a fetchable template location.
type Source struct {
	Kind     SourceKind
	Location string // clone URL or path for KindGit, "owner/repo" for KindGitHubArchive
	Ref      string // branch, tag or commit; empty means the default branch
	Name     string // table name when the source came from the template table
}

func (s Source) String() string {
	if s.Kind == KindGitHubArchive {
		if s.Ref != "" {
			return fmt.Sprintf("github:%s#%s", s.Location, s.Ref)
		}
		return "github:" + s.Location
	}
	return s.Location
}

// Owner and Repo split an archive Location. Both are empty for git sources.
func (s Source) Owner() string {
	if s.Kind != KindGitHubArchive {
		return ""
	}
	owner, _, _ := strings.Cut(s.Location, "/")
	return owner
}

func (s Source) Repo() string {
	if s.Kind != KindGitHubArchive {
		return ""
	}
	_, repo, _ := strings.Cut(s.Location, "/")
	return repo
}

var ownerRepoPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
var scpLikePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+@[A-Za-z0-9_.-]+:.+$`)

// ParseSource turns a template identifier into a Source. Accepted forms,
// tried in this order:
//
//	github:owner/repo[#ref]
//	https://host/owner/repo(.git), ssh://..., git://..., file://...
//	git@host:owner/repo.git
//	an existing local directory (cloned as a git repository)
//	owner/repo[#ref]
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("template source is empty")
	}

	if strings.HasPrefix(raw, "github:") {
		return parseGitHubShorthand(raw, strings.TrimPrefix(raw, "github:"))
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Source{}, fmt.Errorf("failed to parse template URL '%s': %w", raw, err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "ssh", "git", "file":
		default:
			return Source{}, fmt.Errorf("unsupported template URL scheme '%s' in '%s'", u.Scheme, raw)
		}
		if u.Scheme != "file" && u.Host == "" {
			return Source{}, fmt.Errorf("template URL '%s' has no host", raw)
		}
		return Source{Kind: KindGit, Location: raw}, nil
	}

	if scpLikePattern.MatchString(raw) {
		return Source{Kind: KindGit, Location: raw}, nil
	}

	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return Source{Kind: KindGit, Location: raw}, nil
	}

	if src, err := parseGitHubShorthand(raw, raw); err == nil {
		return src, nil
	}

	return Source{}, fmt.Errorf("unrecognized template source '%s': expected a template name, owner/repo, a git URL or a local path", raw)
}

// parseGitHubShorthand handles "owner/repo" with an optional "#ref".
func parseGitHubShorthand(raw, content string) (Source, error) {
	repoPart, ref, hasRef := strings.Cut(content, "#")
	if hasRef && ref == "" {
		return Source{}, fmt.Errorf("invalid github shorthand '%s': ref part is empty after #", raw)
	}
	m := ownerRepoPattern.FindStringSubmatch(repoPart)
	if m == nil {
		return Source{}, fmt.Errorf("invalid github shorthand '%s': expected format owner/repo", raw)
	}
	repo := strings.TrimSuffix(m[2], ".git")
	if repo == "" || repo == "." || repo == ".." || m[1] == "." || m[1] == ".." {
		return Source{}, fmt.Errorf("invalid github shorthand '%s': owner or repo cannot be empty", raw)
	}
	return Source{
		Kind:     KindGitHubArchive,
		Location: m[1] + "/" + repo,
		Ref:      ref,
	}, nil
}
