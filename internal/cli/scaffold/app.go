package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/create-fun-cli/create-fun/internal/cli/ui"
	"github.com/create-fun-cli/create-fun/internal/core/config"
	"github.com/create-fun-cli/create-fun/internal/core/logger"
	"github.com/create-fun-cli/create-fun/internal/core/materializer"
	"github.com/create-fun-cli/create-fun/internal/core/project"
	"github.com/create-fun-cli/create-fun/internal/core/template"
	"github.com/create-fun-cli/create-fun/internal/core/version"
)

// DefaultRegistryTimeout bounds the latest-version lookup.
const DefaultRegistryTimeout = 10 * time.Second

// Deps overrides collaborators of the command. Zero values select the real
// implementations.
type Deps struct {
	Checker      VersionChecker
	Materializer Materializer
	NewSelector  SelectorFactory
	Log          *zap.Logger
	Stdout       io.Writer
	Stderr       io.Writer
}

// NewApp builds the create-fun command line application around meta.
func NewApp(meta *project.Metadata, deps Deps) *cli.App {
	return &cli.App{
		Name:                 meta.Name,
		Usage:                meta.Description,
		Version:              meta.Version,
		ArgsUsage:            "<project-directory>",
		UsageText:            fmt.Sprintf("%s <project-directory> [options]", meta.Name),
		Description:          "Only <project-directory> is required.",
		HideHelpCommand:      true,
		EnableBashCompletion: false,
		Writer:               deps.Stdout,
		ErrWriter:            deps.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "specify a template for the created project (name, owner/repo, git URL or local path)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.BoolFlag{
				Name:  "skip-version-check",
				Usage: "Do not check the registry for a newer create-fun release",
			},
			&cli.DurationFlag{
				Name:  "registry-timeout",
				Usage: "Give up on the latest-version lookup after this long",
				Value: DefaultRegistryTimeout,
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Print the available templates and exit",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a TOML file with extra templates or a custom registry",
				EnvVars: []string{config.UserConfigEnv},
				Value:   config.DefaultUserConfigPath(),
			},
		},
		Action: func(c *cli.Context) error {
			return scaffoldAction(c, meta, deps)
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			// Messages were already printed by the workflow.
			var ec cli.ExitCoder
			if errors.As(err, &ec) {
				cli.OsExiter(ec.ExitCode())
			}
		},
	}
}

// Run reorders args so flags may follow the project directory, then runs app.
func Run(ctx context.Context, app *cli.App, args []string) error {
	return app.RunContext(ctx, PermuteArgs(app.Flags, args))
}

func scaffoldAction(c *cli.Context, base *project.Metadata, deps Deps) error {
	out := ui.New(deps.Stdout, deps.Stderr)

	log := deps.Log
	if log == nil {
		log = logger.New(logger.LevelFor(c.Bool("verbose")))
		defer func() { _ = log.Sync() }()
	}

	if c.NArg() > 1 {
		log.Debug("ignoring extra arguments", zap.Strings("args", c.Args().Tail()))
	}

	uc, err := config.LoadUserConfig(c.String("config"))
	if err != nil {
		out.Error(fmt.Sprintf("Error loading configuration: %v", err))
		return &ExitError{Err: &UsageError{Reason: err.Error()}, Code: 1}
	}
	meta := base.Merge(uc)

	if c.Bool("list") {
		PrintTemplates(out, meta)
		return nil
	}

	table, err := template.NewTable(meta.Templates)
	if err != nil {
		out.Error(fmt.Sprintf("Error loading template table: %v", err))
		return &ExitError{Err: &UsageError{Reason: err.Error()}, Code: 1}
	}

	checker := deps.Checker
	if checker == nil {
		checker = version.NewChecker(meta.Registry, meta.Repository, c.Duration("registry-timeout"), log)
	}
	mat := deps.Materializer
	if mat == nil {
		mat = materializer.New(log)
	}

	wf := &Workflow{
		Meta:             meta,
		Checker:          checker,
		Resolver:         table,
		Materializer:     mat,
		NewSelector:      deps.NewSelector,
		UI:               out,
		Log:              log,
		SkipVersionCheck: c.Bool("skip-version-check"),
	}

	if err := wf.Run(c.Context, Args{Directory: c.Args().First(), Template: c.String("template")}); err != nil {
		return &ExitError{Err: err, Code: 1}
	}
	return nil
}

// Execute loads the embedded package metadata, stamps it with
// versionOverride when set, and runs the command until completion or
// interrupt.
func Execute(versionOverride string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, versionOverride, args, Deps{})
}

func execute(ctx context.Context, versionOverride string, args []string, deps Deps) error {
	meta, err := config.LoadMetadata(versionOverride)
	if err != nil {
		return err
	}
	return Run(ctx, NewApp(meta, deps), args)
}
