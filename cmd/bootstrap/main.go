// Package main is the entry point for the bootstrap CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/bootstrap/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
