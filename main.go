// Package main is the entry point for the traitmut CLI.
package main

import "traitmut.dev/pkg/traitmut/cmd"

func main() {
	cmd.Execute()
}
