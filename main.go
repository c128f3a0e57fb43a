package main

import (
	"os"

	"github.com/protofab/protofab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
