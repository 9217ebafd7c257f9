package main

import (
	"os"

	"github.com/carelane/noshow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
