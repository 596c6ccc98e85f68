package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pflow-xyz/go-tokensale/journal"
)

func events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database written by the demo command")
	nameFilter := fs.String("name", "", "Filter by event name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: tokensale events -db <sale.db> [options]

Display the recorded event journal in sequence order.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Show all events
  tokensale events -db sale.db

  # Only purchases
  tokensale events -db sale.db -name TokensPurchased
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("database path required")
	}

	store, err := journal.OpenStore(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	entries, err := store.List(*nameFilter)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No events recorded")
		return nil
	}

	for _, e := range entries {
		attrs := make([]string, 0, len(e.Attrs))
		for k, v := range e.Attrs {
			attrs = append(attrs, fmt.Sprintf("%s=%s", k, v))
		}
		sort.Strings(attrs)
		fmt.Printf("%4d  %-28s  %s\n", e.Seq, e.Name, strings.Join(attrs, " "))
	}
	fmt.Printf("\n%d events\n", len(entries))
	return nil
}
