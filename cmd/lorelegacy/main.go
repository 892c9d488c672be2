// Package main is the lorelegacy command line: it imports pasted Lore &
// Legacy rulebook text into a content store and serves it over gRPC.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
