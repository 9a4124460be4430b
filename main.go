package main

import (
	"os"

	"github.com/aursu/sshdconf/cmd"
	"github.com/aursu/sshdconf/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
