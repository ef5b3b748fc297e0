// create-fun scaffolds a new frontend project from a template repository.
package main

import (
	"log"
	"os"

	"github.com/create-fun-cli/create-fun/internal/cli/scaffold"
)

// version is stamped at release time with -ldflags "-X main.version=...".
// Left empty, the version recorded in the embedded package.toml is used.
var version string

func main() {
	if err := scaffold.Execute(version, os.Args); err != nil {
		log.Fatal(err)
	}
}
