package main

import (
	"os"

	"github.com/rustyeddy/pnlhub/cmd/pnlhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
