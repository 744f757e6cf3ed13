package main

import (
	"fmt"
	"os"

	"grundy/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "grundy: %v\n", err)
		os.Exit(1)
	}
}
