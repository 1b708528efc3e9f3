// Package main is the entry point for the drydoc CLI.
// drydoc is a pluggable documentation-site builder.
package main

import (
	"os"

	"github.com/semio-ai/drydoc/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
