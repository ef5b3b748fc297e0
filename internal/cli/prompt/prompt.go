// Package prompt decides which template the user wants, either from the
// --template flag or by asking interactively.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/create-fun-cli/create-fun/internal/core/template"
)

// Selector produces a template choice.
type Selector interface {
	Select(ctx context.Context) (template.Choice, error)
}

// AskFunc has the signature of survey.AskOne.
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// For returns a Flag selector when flagValue is set and an Interactive one
// otherwise.
func For(flagValue string, frameworks []string) Selector {
	if flagValue != "" {
		return Flag{Value: flagValue}
	}
	return &Interactive{Frameworks: frameworks}
}

// Flag hands the --template value through untouched; resolution happens in
// the template table.
type Flag struct {
	Value string
}

func (f Flag) Select(context.Context) (template.Choice, error) {
	return template.Choice{Raw: f.Value}, nil
}

// Interactive asks for a framework and whether to use TypeScript.
type Interactive struct {
	Frameworks []string
	// Ask defaults to survey.AskOne.
	Ask  AskFunc
	Opts []survey.AskOpt
}

func (p *Interactive) Select(ctx context.Context) (template.Choice, error) {
	if len(p.Frameworks) == 0 {
		return template.Choice{}, errors.New("no frameworks available to choose from")
	}
	ask := p.Ask
	if ask == nil {
		ask = survey.AskOne
	}

	var framework string
	err := ask(&survey.Select{
		Message: "Please select a frontend framework:",
		Options: p.Frameworks,
		Default: p.Frameworks[0],
	}, &framework, p.Opts...)
	if err != nil {
		return template.Choice{}, fmt.Errorf("failed to read framework choice: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return template.Choice{}, err
	}

	typed := true
	err = ask(&survey.Confirm{
		Message: "Whether to support TypeScript?",
		Default: true,
	}, &typed, p.Opts...)
	if err != nil {
		return template.Choice{}, fmt.Errorf("failed to read TypeScript choice: %w", err)
	}

	return template.Choice{Framework: framework, Variant: template.VariantFor(typed)}, nil
}
