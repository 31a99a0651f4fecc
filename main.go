package main

import (
	"fmt"
	"os"

	"github.com/lfdebrux/github-branch-renamer/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the branch-renamer command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
