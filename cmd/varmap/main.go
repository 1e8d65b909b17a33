package main

import (
	"os"

	"github.com/niksavis/burndown-chart-sub004/cmd/varmap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
