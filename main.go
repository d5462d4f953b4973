package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/redkv/cmd"
	"github.com/oakwood-commons/redkv/pkg/logger"
)

func main() {
	exitCode := cmd.ExitOK
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = cmd.ExitCode(err)
	}

	logger.Sync()
	if exitCode != cmd.ExitOK {
		os.Exit(exitCode)
	}
}
