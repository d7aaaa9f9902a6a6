package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/docsage/docsage/internal/cli"
)

func main() {
	// Best effort; most deployments set real environment variables.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
