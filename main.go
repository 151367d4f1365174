package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thenoetrevino/kanrank/cmd"
	"github.com/thenoetrevino/kanrank/internal/cli"
)

func main() {
	err := cmd.Execute()

	var cmdErr *cli.CommandError
	if err != nil && !errors.As(err, &cmdErr) {
		// Flag and argument errors never reach a formatter
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitUsage)
	}
	os.Exit(cli.ExitCode(err))
}
