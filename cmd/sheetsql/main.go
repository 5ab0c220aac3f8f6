// Package main provides the CLI entry point for sheetsql.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, sheetsql.ErrCancelled) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
