package main

import (
	"os"

	"github.com/mmynk/budgetlink/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
