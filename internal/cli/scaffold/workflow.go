// Package scaffold implements the create-fun command: version gate,
// existence gate, template selection and materialization, in that order.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/create-fun-cli/create-fun/internal/cli/prompt"
	"github.com/create-fun-cli/create-fun/internal/cli/ui"
	"github.com/create-fun-cli/create-fun/internal/core/materializer"
	"github.com/create-fun-cli/create-fun/internal/core/project"
	"github.com/create-fun-cli/create-fun/internal/core/template"
	"github.com/create-fun-cli/create-fun/internal/core/version"
)

// Args is what the user typed.
type Args struct {
	Directory string
	Template  string
}

// VersionChecker looks up the latest published version of a package.
type VersionChecker interface {
	Check(ctx context.Context, pkg string) version.Result
}

// Resolver turns a template choice into a fetchable source.
type Resolver interface {
	ResolveChoice(c template.Choice) (template.Source, error)
	Frameworks() []string
}

// Materializer writes a template into a new directory.
type Materializer interface {
	Materialize(ctx context.Context, target string, src template.Source) error
}

// SelectorFactory picks the template selector for a --template value.
type SelectorFactory func(flagValue string, frameworks []string) prompt.Selector

// Workflow runs one scaffold. Every collaborator is injected.
type Workflow struct {
	Meta         *project.Metadata
	Checker      VersionChecker
	Resolver     Resolver
	Materializer Materializer
	NewSelector  SelectorFactory
	// NewProgress defaults to a spinner on UI.
	NewProgress      func(text string) ui.Progress
	UI               *ui.UI
	Log              *zap.Logger
	SkipVersionCheck bool
}

// Run executes the gates in order and stops at the first one that fails.
// User-facing messages are printed here; the returned error is typed.
func (w *Workflow) Run(ctx context.Context, args Args) error {
	if w.Log == nil {
		w.Log = zap.NewNop()
	}
	if w.UI == nil {
		w.UI = ui.New(nil, nil)
	}

	dir := strings.TrimSpace(args.Directory)
	if dir == "" {
		w.printUsage()
		return &UsageError{Reason: "the project directory is required"}
	}
	dir = filepath.Clean(dir)

	if err := w.versionGate(ctx); err != nil {
		return err
	}

	if err := w.existenceGate(dir); err != nil {
		return err
	}

	choice, err := w.selectTemplate(ctx, args.Template)
	if err != nil {
		w.UI.Error(fmt.Sprintf("Template selection aborted: %v", err))
		return err
	}
	w.Log.Debug("template chosen", zap.Stringer("choice", choice))

	return w.materialize(ctx, dir, choice)
}

func (w *Workflow) versionGate(ctx context.Context) error {
	if w.SkipVersionCheck || w.Checker == nil {
		w.Log.Debug("version check skipped")
		return nil
	}

	res := w.Checker.Check(ctx, w.Meta.Name)
	w.Log.Debug("version check finished",
		zap.Stringer("status", res.Status),
		zap.String("latest", res.Version),
		zap.String("source", res.Source),
		zap.String("current", w.Meta.Version))

	behind, err := version.IsBehind(w.Meta.Version, res)
	if err != nil {
		w.Log.Debug("cannot compare versions, continuing", zap.Error(err))
		return nil
	}
	if !behind {
		return nil
	}

	name := w.Meta.Name
	w.UI.Errorln()
	w.UI.Warn(fmt.Sprintf("You are running %s@%s, which is behind the latest release (%s). Please reinstall the latest version.", name, w.Meta.Version, res.Version))
	w.UI.Errorln()
	w.UI.Errorln("Please remove any global installs with one of the following commands:")
	w.UI.Errorln(fmt.Sprintf("- npm uninstall -g %s", name))
	w.UI.Errorln(fmt.Sprintf("- yarn global remove %s", name))
	w.UI.Errorln()
	return &StaleVersionError{Name: name, Current: w.Meta.Version, Latest: res.Version}
}

func (w *Workflow) existenceGate(dir string) error {
	_, err := os.Lstat(dir)
	if err == nil {
		w.UI.Error(fmt.Sprintf("Directory %s is already in use", dir))
		return &TargetExistsError{Dir: dir}
	}
	if !errors.Is(err, os.ErrNotExist) {
		w.UI.Error(fmt.Sprintf("Cannot check directory %s: %v", dir, err))
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	return nil
}

func (w *Workflow) selectTemplate(ctx context.Context, flagValue string) (template.Choice, error) {
	newSelector := w.NewSelector
	if newSelector == nil {
		newSelector = prompt.For
	}
	return newSelector(flagValue, w.Resolver.Frameworks()).Select(ctx)
}

func (w *Workflow) materialize(ctx context.Context, dir string, choice template.Choice) error {
	var progress ui.Progress
	if w.NewProgress != nil {
		progress = w.NewProgress("Downloading...")
	} else {
		progress = w.UI.NewSpinner("Downloading...")
	}
	progress.Start()

	src, err := w.Resolver.ResolveChoice(choice)
	if err == nil {
		w.Log.Debug("template resolved", zap.Stringer("source", src), zap.String("target", dir))
		err = w.Materializer.Materialize(ctx, dir, src)
	}
	if err != nil {
		progress.Fail()
		if errors.Is(err, materializer.ErrTargetExists) {
			w.UI.Error(fmt.Sprintf("Directory %s is already in use", dir))
			return &TargetExistsError{Dir: dir}
		}
		w.Log.Debug("materialization failed", zap.Error(err))
		w.UI.Error("Template download failed, please retry.")
		w.UI.Errorln("  " + err.Error())
		return &MaterializationError{Source: src, Err: err}
	}

	progress.Succeed()
	w.UI.Success("The project has been created successfully!")
	w.UI.Println()
	w.UI.Println("Next steps:")
	w.UI.Printf("  cd %s\n", ui.Cyan(dir))
	return nil
}

func (w *Workflow) printUsage() {
	name := w.Meta.Name
	w.UI.Errorln("Please specify the project directory:")
	w.UI.Errorln(fmt.Sprintf("  %s %s", ui.Cyan(name), ui.Green("<project-directory>")))
	w.UI.Errorln()
	w.UI.Errorln("For example:")
	w.UI.Errorln(fmt.Sprintf("  %s %s", ui.Cyan(name), ui.Green("my-react-app")))
	w.UI.Errorln()
	w.UI.Errorln(fmt.Sprintf("Run %s to see all options.", ui.Cyan(name+" --help")))
}
