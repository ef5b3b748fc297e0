package scaffold

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// PermuteArgs moves flags in front of positional arguments. urfave/cli stops
// flag parsing at the first positional argument, while the documented usage
// is "<project-directory> [options]". args[0] is the program name. Parsing
// stops at "--".
func PermuteArgs(flags []cli.Flag, args []string) []string {
	if len(args) <= 1 {
		return args
	}

	takesValue := make(map[string]bool)
	for _, f := range flags {
		if _, isBool := f.(*cli.BoolFlag); isBool {
			continue
		}
		for _, name := range f.Names() {
			takesValue[name] = true
		}
	}

	out := []string{args[0]}
	var positional []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positional = append(positional, rest[i:]...)
			break
		}
		if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			continue
		}

		out = append(out, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if takesValue[name] && i+1 < len(rest) {
			i++
			out = append(out, rest[i])
		}
	}
	return append(out, positional...)
}
