package main

import (
	"os"

	"github.com/mdsync/mdsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
