// Command gosch runs and parses gosch source files.
package main

import (
	"fmt"
	"os"

	"github.com/gosch-lang/gosch/cmd/gosch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
