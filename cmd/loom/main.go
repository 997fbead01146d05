// Command loom runs the Loom showcase in the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/loom/cmd/loom/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
