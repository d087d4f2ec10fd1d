package main

import (
	"os"

	"github.com/ultrapreps/visionqa/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
