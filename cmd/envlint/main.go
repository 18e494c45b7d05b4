package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jenian/envlint/internal/cli"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	rootCmd := cli.NewRootCommand(Version, os.Stdout, os.Stderr)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cli.ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
