package main

import (
	"os"

	"github.com/soundprediction/musicgraph/cmd/musicgraph"
)

func main() {
	if err := musicgraph.Execute(); err != nil {
		os.Exit(1)
	}
}
