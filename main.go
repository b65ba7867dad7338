// Package main is the entry point for the forcecursor CLI.
package main

import (
	"forcecursor/cli/cmd"
)

func main() {
	cmd.Execute()
}
