// polish is the command-line client for a PromptPolish server.
package main

import (
	"os"

	"promptpolish/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
