package main

import (
	"os"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
