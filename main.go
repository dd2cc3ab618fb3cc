package main

import (
	"os"

	"github.com/selenedb/selene/cmd"
)

func main() {
	if cmd.Execute() != nil {
		os.Exit(1)
	}
}
