package main

import (
	"os"

	"github.com/wealthwise-dev/wealthwise/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
