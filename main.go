package main

import (
	"os"

	"taskflow-backend/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
