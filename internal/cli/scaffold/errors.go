package scaffold

import (
	"fmt"

	"github.com/create-fun-cli/create-fun/internal/core/template"
)

// UsageError means the command line was incomplete or the configuration
// could not be loaded.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return e.Reason }

// StaleVersionError stops a run whose binary is older than the latest release.
type StaleVersionError struct {
	Name    string
	Current string
	Latest  string
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("%s@%s is behind the latest release (%s)", e.Name, e.Current, e.Latest)
}

// TargetExistsError means the project directory is already taken.
type TargetExistsError struct {
	Dir string
}

func (e *TargetExistsError) Error() string {
	return fmt.Sprintf("directory %s is already in use", e.Dir)
}

// MaterializationError wraps a failure to resolve or fetch the template.
// A template.ResolutionError is reported through this type as well.
type MaterializationError struct {
	Source template.Source
	Err    error
}

func (e *MaterializationError) Error() string {
	if e.Source.Location == "" {
		return fmt.Sprintf("template download failed: %v", e.Err)
	}
	return fmt.Sprintf("template download from %s failed: %v", e.Source, e.Err)
}

func (e *MaterializationError) Unwrap() error { return e.Err }

// ExitError carries a workflow error together with the process exit status.
// It satisfies cli.ExitCoder.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) ExitCode() int { return e.Code }
func (e *ExitError) Unwrap() error { return e.Err }
