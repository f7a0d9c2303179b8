// Package main is the entry point for the codefmt CLI.
package main

import "codefmt.dev/pkg/codefmt/cmd"

func main() {
	cmd.Execute()
}
