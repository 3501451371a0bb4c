// ABOUTME: Main entry point for the planttexts CLI
// ABOUTME: Loads .env, sets build info, and executes the cobra root command
package main

import (
	"fmt"
	"os"

	"github.com/harper/plant-texts/cmd/planttexts/commands"
	"github.com/joho/godotenv"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
