package main

import (
	"os"

	"github.com/saranya/tutorquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
