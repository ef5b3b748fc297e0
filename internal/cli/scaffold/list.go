package scaffold

import (
	"sort"

	"github.com/fatih/color"

	"github.com/create-fun-cli/create-fun/internal/cli/ui"
	"github.com/create-fun-cli/create-fun/internal/core/project"
)

// PrintTemplates writes the merged template table, one entry per line:
// name, framework and variant, source.
func PrintTemplates(u *ui.UI, meta *project.Metadata) {
	nameColor := color.New(color.FgMagenta, color.Bold, color.Underline).SprintFunc()
	versionColor := color.New(color.FgMagenta).SprintFunc()
	headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
	entryColor := color.New(color.FgWhite).SprintFunc()
	kindColor := color.New(color.FgYellow).SprintFunc()
	sourceColor := color.New(color.FgHiBlack).SprintFunc()

	u.Printf("%s@%s\n", nameColor(meta.Name), versionColor(meta.Version))
	u.Println()
	u.Println(headerColor("templates:"))

	if len(meta.Templates) == 0 {
		u.Println("No templates configured.")
		return
	}

	names := make([]string, 0, len(meta.Templates))
	for name := range meta.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := meta.Templates[name]
		kind := "flag only"
		if entry.Framework != "" {
			kind = entry.Framework + " (" + entry.Variant + ")"
		}
		u.Printf("%s %s %s\n", entryColor(name), kindColor(kind), sourceColor(entry.Source))
	}
}
