package main

import (
	"os"

	"github.com/Birdy2014/einkaufszettel/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
