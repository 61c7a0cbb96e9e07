// Package main is the entry point for the rolo CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/rolo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
