package main

import (
	"os"

	"github.com/emilythestrangee/bugai/backend/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
