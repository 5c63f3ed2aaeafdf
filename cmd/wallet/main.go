package main

import (
	"os"

	"github.com/wallet-dev/wallet/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
