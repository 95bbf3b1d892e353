package main

import (
	"os"

	"github.com/wonny/ratings/cmd/ratings/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
