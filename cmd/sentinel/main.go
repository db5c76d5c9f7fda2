package main

import (
	"os"

	"github.com/misinfoguard/sentinel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
