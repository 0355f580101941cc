package main

import (
	"os"

	"github.com/Emily9121/WifeyMOOC/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
