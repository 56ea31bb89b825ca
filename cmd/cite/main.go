// Package main is the entry point for the cite CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/cite/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
