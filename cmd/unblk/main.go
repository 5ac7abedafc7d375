// Package main is the CLI entry point for unblk.
package main

import (
	"os"

	"github.com/eliteGoblin/focusd/web_mon/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewUnblkCommand()))
}
