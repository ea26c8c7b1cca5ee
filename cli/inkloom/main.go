package main

import (
	"os"

	inkloomcmder "github.com/inkloomco/inkloom/cmd/inkloom"
)

func main() {
	cmd := inkloomcmder.NewInkloomCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
