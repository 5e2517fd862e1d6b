package main

import (
	"os"

	"github.com/existflow/notepado/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
