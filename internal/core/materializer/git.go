package materializer

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/create-fun-cli/create-fun/internal/core/template"
)

// GitFetcher clones the template repository. Remote clones are shallow.
type GitFetcher struct {
	// Progress receives git's sideband output when set.
	Progress io.Writer
}

func (g *GitFetcher) Fetch(ctx context.Context, target string, src template.Source) error {
	opts := &git.CloneOptions{
		URL:          src.Location,
		SingleBranch: true,
		Progress:     g.Progress,
	}
	if !isLocal(src.Location) {
		opts.Depth = 1
	}
	_, err := git.PlainCloneContext(ctx, target, false, opts)
	return err
}

// isLocal reports whether loc is a path or file:// URL. go-git's file
// transport does not negotiate shallow clones.
func isLocal(loc string) bool {
	if strings.HasPrefix(loc, "file://") {
		return true
	}
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" && u.Host != "" {
		return false
	}
	_, err := os.Stat(loc)
	return err == nil
}
