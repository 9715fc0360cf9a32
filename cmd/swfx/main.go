package main

import (
	"fmt"
	"os"

	"github.com/turnforge/swfx/cmd/swfx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
