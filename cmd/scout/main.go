package main

import (
	"os"

	"github.com/mlefloch/stockscout/cmd/scout/commands"
)

// main is the entry point for the StockScout CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
