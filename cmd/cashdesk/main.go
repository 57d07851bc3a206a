package main

import (
	"os"

	"github.com/rustyeddy/cashdesk/cmd/cashdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
