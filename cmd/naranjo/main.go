// Command naranjo is the Naranjo adverse drug reaction assessor.
package main

import (
	"fmt"
	"os"

	"github.com/naranjo-adr-assessor/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
