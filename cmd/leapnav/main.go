// Package main provides the leapnav command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapnav/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
