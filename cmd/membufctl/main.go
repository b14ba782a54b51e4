package main

import (
	"fmt"
	"os"

	"github.com/elyor0529/membuf/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
