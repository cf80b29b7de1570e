package main

import (
	"fmt"
	"os"

	"fitqa/cmd/fitqa/cmd"
	"fitqa/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration warning: %v\n", err)
		// Continue execution - keys may be set system-wide
	}

	cmd.Execute()
}
