package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		if err := demo(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		if err := events(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "prove":
		if err := prove(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("tokensale version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// newLogger builds the console logger the subcommands report through.
func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func printUsage() {
	fmt.Println(`tokensale - staged token sale engine

Usage:
  tokensale <command> [options]

Commands:
  demo       Run a scripted sale end to end and record its event journal
  events     Show the event journal from a recorded database
  prove      Generate and verify a pricing proof for a purchase
  help       Show this help message
  version    Show version information

Examples:
  # Run the demo sale and persist its journal
  tokensale demo -db sale.db

  # Inspect the recorded events
  tokensale events -db sale.db
  tokensale events -db sale.db -name TokensPurchased

  # Prove a purchase was priced correctly
  tokensale prove -payment 100000000000000000 -price 1700000 -bonus 2000`)
}
