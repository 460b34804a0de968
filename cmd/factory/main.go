package main

import (
	"fmt"
	"os"

	"github.com/forgo/factory/cmd/factory/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
