// Package ui renders user-facing terminal output: status symbols, colored
// messages and the download spinner.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Status symbols, matching the usual log-symbols set.
const (
	SymbolSuccess = "✔"
	SymbolError   = "✖"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// UI writes to Out (normal output) and Err (problems).
type UI struct {
	Out io.Writer
	Err io.Writer
}

// New returns a UI over the given writers; nil means stdout/stderr.
func New(out, errw io.Writer) *UI {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &UI{Out: out, Err: errw}
}

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// Green, Cyan and friends are exposed for inline highlighting.
func Green(s string) string  { return green.Sprint(s) }
func Cyan(s string) string   { return cyan.Sprint(s) }
func Yellow(s string) string { return yellow.Sprint(s) }

func (u *UI) Success(msg string) {
	_, _ = fmt.Fprintln(u.Out, green.Sprint(SymbolSuccess), green.Sprint(msg))
}

func (u *UI) Error(msg string) {
	_, _ = fmt.Fprintln(u.Err, red.Sprint(SymbolError), red.Sprint(msg))
}

func (u *UI) Warn(msg string) {
	_, _ = fmt.Fprintln(u.Err, yellow.Sprint(SymbolWarning), yellow.Sprint(msg))
}

func (u *UI) Info(msg string) {
	_, _ = fmt.Fprintln(u.Out, cyan.Sprint(SymbolInfo), msg)
}

func (u *UI) Println(a ...any) {
	_, _ = fmt.Fprintln(u.Out, a...)
}

func (u *UI) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(u.Out, format, a...)
}

// Errorln writes plain text to Err.
func (u *UI) Errorln(a ...any) {
	_, _ = fmt.Fprintln(u.Err, a...)
}

// Progress is a running activity indicator.
type Progress interface {
	Start()
	Succeed()
	Fail()
}

// Spinner animates while Materialize runs. The animation is suppressed by
// the spinner library when Out is not a terminal; the final line is always
// printed.
type Spinner struct {
	ui   *UI
	text string
	s    *spinner.Spinner
}

var _ Progress = (*Spinner)(nil)

// NewSpinner returns a stopped spinner labelled text.
func (u *UI) NewSpinner(text string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(u.Out))
	s.Suffix = " " + text
	return &Spinner{ui: u, text: text, s: s}
}

func (sp *Spinner) Start() {
	sp.s.Start()
}

func (sp *Spinner) Succeed() {
	sp.s.Stop()
	_, _ = fmt.Fprintln(sp.ui.Out, green.Sprint(SymbolSuccess), sp.text)
}

func (sp *Spinner) Fail() {
	sp.s.Stop()
	_, _ = fmt.Fprintln(sp.ui.Out, red.Sprint(SymbolError), sp.text)
}
