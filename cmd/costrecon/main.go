package main

import (
	"os"

	"azure-cost-reconciler/cmd/costrecon/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.HandleError(err))
	}
}
