// Command memctl is the admin CLI for the agent memory service.
package main

import (
	"fmt"
	"os"

	"github.com/hindsight-ai/memctl/internal/cli"
	"github.com/hindsight-ai/memctl/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the result to a process exit
// code. It is separate from main so tests can exercise it.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
