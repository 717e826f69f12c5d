package main

import (
	"os"

	"github.com/memberberries/berry/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
