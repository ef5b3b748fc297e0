package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"

	"github.com/create-fun-cli/create-fun/internal/cli/prompt"
	"github.com/create-fun-cli/create-fun/internal/core/config"
	"github.com/create-fun-cli/create-fun/internal/core/version"
)

// runApp executes the full command with the given arguments. Exit handling
// is disabled so that errors reach the test.
func runApp(t *testing.T, deps Deps, args ...string) (*bytes.Buffer, *bytes.Buffer, error) {
	t.Helper()
	meta, err := config.LoadMetadata("1.2.0")
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.Log == nil {
		deps.Log = zaptest.NewLogger(t)
	}

	app := NewApp(meta, deps)
	app.ExitErrHandler = func(context *cli.Context, err error) {
		// Do nothing; the test inspects the returned error.
	}

	cliArgs := append([]string{"create-fun", "--config", filepath.Join(t.TempDir(), "none.toml")}, args...)
	err = Run(context.Background(), app, cliArgs)
	return &stdout, &stderr, err
}

func noPrompts(t *testing.T) SelectorFactory {
	return func(flagValue string, frameworks []string) prompt.Selector {
		if flagValue == "" {
			t.Fatal("interactive prompt requested")
		}
		return prompt.For(flagValue, frameworks)
	}
}

func TestApp_TemplateFlagAfterDirectory(t *testing.T) {
	inTempDir(t)
	mat := &fakeMaterializer{}
	deps := Deps{
		Checker:      &fakeChecker{result: version.Result{Status: version.Known, Version: "1.2.0"}},
		Materializer: mat,
		NewSelector:  noPrompts(t),
	}

	stdout, _, err := runApp(t, deps, "my-app", "--template", "react-ts")
	require.NoError(t, err)
	require.Equal(t, 1, mat.calls)
	assert.Equal(t, "my-app", mat.target)
	assert.Equal(t, "react-ts", mat.src.Name)
	assert.Contains(t, stdout.String(), "created successfully")
}

func TestApp_MissingDirectory(t *testing.T) {
	mat := &fakeMaterializer{}
	_, stderr, err := runApp(t, Deps{Checker: &fakeChecker{}, Materializer: mat})
	require.Error(t, err)

	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())

	var usage *UsageError
	assert.True(t, errors.As(err, &usage))
	assert.Equal(t, 0, mat.calls)
	assert.Contains(t, stderr.String(), "Please specify the project directory:")
}

func TestApp_StaleVersionExitsNonZero(t *testing.T) {
	inTempDir(t)
	mat := &fakeMaterializer{}
	deps := Deps{
		Checker:      &fakeChecker{result: version.Result{Status: version.Known, Version: "2.0.0"}},
		Materializer: mat,
		NewSelector:  noPrompts(t),
	}

	_, stderr, err := runApp(t, deps, "my-app", "-t", "vue")
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())

	var stale *StaleVersionError
	assert.True(t, errors.As(err, &stale))
	assert.Equal(t, 0, mat.calls)
	assert.Contains(t, stderr.String(), "create-fun@1.2.0")
	assert.Contains(t, stderr.String(), "2.0.0")
}

func TestApp_UserConfigAddsTemplate(t *testing.T) {
	inTempDir(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[templates.svelte-ts]
framework = "svelte"
variant = "typed"
source = "acme/svelte-ts-template"
`), 0644))

	mat := &fakeMaterializer{}
	deps := Deps{
		Checker:      &fakeChecker{result: version.Result{Status: version.Unknown}},
		Materializer: mat,
		NewSelector:  noPrompts(t),
	}
	_, _, err := runApp(t, deps, "--config", cfgPath, "my-app", "--template", "svelte-ts")
	require.NoError(t, err)
	assert.Equal(t, "acme/svelte-ts-template", mat.src.Location)
}

func TestApp_InvalidUserConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[templates\n"), 0644))

	mat := &fakeMaterializer{}
	_, stderr, err := runApp(t, Deps{Checker: &fakeChecker{}, Materializer: mat}, "--config", cfgPath, "my-app")
	var usage *UsageError
	require.True(t, errors.As(err, &usage))
	assert.Equal(t, 0, mat.calls)
	assert.Contains(t, stderr.String(), "Error loading configuration")
}

func TestApp_SkipVersionCheckFlag(t *testing.T) {
	inTempDir(t)
	checker := &fakeChecker{result: version.Result{Status: version.Known, Version: "9.0.0"}}
	mat := &fakeMaterializer{}
	deps := Deps{Checker: checker, Materializer: mat, NewSelector: noPrompts(t)}

	_, _, err := runApp(t, deps, "my-app", "--skip-version-check", "--template", "vue-ts")
	require.NoError(t, err)
	assert.Equal(t, 0, checker.calls)
	assert.Equal(t, 1, mat.calls)
}

func TestApp_VersionFlag(t *testing.T) {
	stdout, _, err := runApp(t, Deps{Checker: &fakeChecker{}, Materializer: &fakeMaterializer{}}, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "1.2.0")
}

func TestApp_HelpMentionsDirectory(t *testing.T) {
	stdout, _, err := runApp(t, Deps{Checker: &fakeChecker{}, Materializer: &fakeMaterializer{}}, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "<project-directory>")
	assert.Contains(t, stdout.String(), "--template")
}

// TestApp_EndToEndLocalRepository wires the real materializer against a git
// repository on disk.
func TestApp_EndToEndLocalRepository(t *testing.T) {
	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "index.html"), []byte("<div id=app></div>"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("index.html")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	workDir := inTempDir(t)
	deps := Deps{
		Checker:     &fakeChecker{result: version.Result{Status: version.Known, Version: "1.0.0"}},
		NewSelector: noPrompts(t),
	}
	_, _, err = runApp(t, deps, "my-app", "--template", repoDir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(workDir, "my-app", "index.html"))
	assert.NoDirExists(t, filepath.Join(workDir, "my-app", ".git"))
}

// stubExit replaces cli.OsExiter for the duration of the test and records
// the requested exit code.
func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	prev := cli.OsExiter
	cli.OsExiter = func(c int) { code = c }
	t.Cleanup(func() { cli.OsExiter = prev })
	return &code
}

func TestExecute_UnstampedBuildUsesEmbeddedVersion(t *testing.T) {
	inTempDir(t)
	t.Setenv(config.UserConfigEnv, filepath.Join(t.TempDir(), "none.toml"))
	code := stubExit(t)

	embedded, err := config.LoadMetadata("")
	require.NoError(t, err)

	mat := &fakeMaterializer{}
	var stderr bytes.Buffer
	deps := Deps{
		Checker:      &fakeChecker{result: version.Result{Status: version.Known, Version: "99.0.0"}},
		Materializer: mat,
		NewSelector:  noPrompts(t),
		Log:          zaptest.NewLogger(t),
		Stdout:       &bytes.Buffer{},
		Stderr:       &stderr,
	}
	err = execute(context.Background(), "", []string{"create-fun", "my-app", "--template", "vue"}, deps)

	var stale *StaleVersionError
	require.True(t, errors.As(err, &stale), "an unstamped build must still stop on a stale version")
	assert.Equal(t, embedded.Version, stale.Current)
	assert.Equal(t, 1, *code)
	assert.Equal(t, 0, mat.calls)
	assert.Contains(t, stderr.String(), "create-fun@"+embedded.Version)
}

func TestExecute_StampedVersionWins(t *testing.T) {
	t.Setenv(config.UserConfigEnv, filepath.Join(t.TempDir(), "none.toml"))
	stubExit(t)

	var stdout bytes.Buffer
	deps := Deps{Checker: &fakeChecker{}, Materializer: &fakeMaterializer{}, Stdout: &stdout, Stderr: &bytes.Buffer{}}
	err := execute(context.Background(), "2.3.4", []string{"create-fun", "--version"}, deps)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "2.3.4")
}
