package main

import (
	"os"

	"github.com/sstent/garminconnect/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
