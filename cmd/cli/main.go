// Package main is the entry point for the paasctl binary.
package main

import (
	"os"

	cli "paasd/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
