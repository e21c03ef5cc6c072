package main

import (
	"os"

	"github.com/ericlevine/dmdetect/cmd/dmdetect/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := cmd.NewRootCommand()
	root.Version = version + " (commit: " + commit + ", built: " + date + ")"
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
