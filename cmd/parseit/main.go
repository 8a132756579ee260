package main

import (
	"os"

	"github.com/gnolang/parseit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
