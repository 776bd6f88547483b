// Package main is the entry point for schoolctl, the Contoso University
// administration tool.
package main

import (
	"fmt"
	"os"

	"github.com/contoso/university/cmd/schoolctl/internal/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, commands.ErrorColor.Sprint("Error: "), err)
		os.Exit(1)
	}
}
