// Package template maps a user's framework and language choices onto the
// template repository that scaffolds them.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/create-fun-cli/create-fun/internal/core/project"
)

// Variant is the language flavour of a template.
type Variant string

const (
	VariantPlain Variant = "plain"
	VariantTyped Variant = "typed"
)

// VariantFor maps the "use TypeScript?" answer to a Variant.
func VariantFor(typed bool) Variant {
	if typed {
		return VariantTyped
	}
	return VariantPlain
}

// Choice is what the user picked. Raw is set instead of Framework/Variant
// when the template was given directly on the command line.
type Choice struct {
	Framework string
	Variant   Variant
	Raw       string
}

func (c Choice) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return fmt.Sprintf("%s (%s)", c.Framework, c.Variant)
}

// ResolutionError is returned when a choice does not map to any template.
type ResolutionError struct {
	Choice Choice
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no template for %s: %s", e.Choice, e.Reason)
	}
	return fmt.Sprintf("no template for %s", e.Choice)
}

type key struct {
	framework string
	variant   Variant
}

// Table is the fixed lookup from (framework, variant) to template source.
// It is read-only after construction.
type Table struct {
	byKey  map[key]Source
	byName map[string]Source
}

// NewTable builds a Table from named entries. Each (framework, variant)
// pair may appear only once.
func NewTable(entries map[string]project.TemplateEntry) (*Table, error) {
	t := &Table{
		byKey:  make(map[key]Source, len(entries)),
		byName: make(map[string]Source, len(entries)),
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := entries[name]
		src, err := ParseSource(entry.Source)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", name, err)
		}
		src.Name = name
		t.byName[name] = src

		if entry.Framework == "" {
			continue
		}
		k := key{framework: strings.ToLower(entry.Framework), variant: Variant(strings.ToLower(entry.Variant))}
		if k.variant != VariantPlain && k.variant != VariantTyped {
			return nil, fmt.Errorf("template %q: unknown variant %q", name, entry.Variant)
		}
		if prev, dup := t.byKey[k]; dup {
			return nil, fmt.Errorf("templates %q and %q both claim %s/%s", prev.Name, name, k.framework, k.variant)
		}
		t.byKey[k] = src
	}
	return t, nil
}

// Resolve is a pure lookup; ok is false for an unsupported pair.
func (t *Table) Resolve(c Choice) (Source, bool) {
	src, ok := t.byKey[key{framework: strings.ToLower(c.Framework), variant: c.Variant}]
	return src, ok
}

// ResolveChoice is Resolve with the miss turned into a ResolutionError.
func (t *Table) ResolveChoice(c Choice) (Source, error) {
	if c.Raw != "" {
		return t.ResolveFlag(c.Raw)
	}
	if src, ok := t.Resolve(c); ok {
		return src, nil
	}
	return Source{}, &ResolutionError{Choice: c}
}

// ResolveFlag resolves a --template value: a table name first, then any
// form accepted by ParseSource.
func (t *Table) ResolveFlag(value string) (Source, error) {
	c := Choice{Raw: value}
	if strings.TrimSpace(value) == "" {
		return Source{}, &ResolutionError{Choice: c, Reason: "empty template name"}
	}
	if src, ok := t.byName[value]; ok {
		return src, nil
	}
	src, err := ParseSource(value)
	if err != nil {
		return Source{}, &ResolutionError{Choice: c, Reason: err.Error()}
	}
	return src, nil
}

// Frameworks lists the frameworks in the table, sorted.
func (t *Table) Frameworks() []string {
	seen := make(map[string]bool)
	var out []string
	for k := range t.byKey {
		if !seen[k.framework] {
			seen[k.framework] = true
			out = append(out, k.framework)
		}
	}
	sort.Strings(out)
	return out
}

// Names lists the table names usable with --template, sorted.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.byName))
	for name := range t.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
