package main

import (
	"os"

	"github.com/asdf-format/changelog-md/internal/cli"
	"github.com/asdf-format/changelog-md/internal/cli/shared"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(shared.ExitCode(err))
	}
}
