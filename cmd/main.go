package main

import (
	"os"

	"github.com/vockit/lattice/cmd/lattice"
)

func main() {
	if err := lattice.Execute(); err != nil {
		os.Exit(1)
	}
}
