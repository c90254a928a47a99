// Package main provides the entry point for the fieldex CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/fieldex/cmd/fieldex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
