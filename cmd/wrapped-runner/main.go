// Package main is the entry point for wrapped-runner.
package main

import "github.com/sharkusmanch/wrapped-runner/internal/cli"

func main() {
	cli.Execute()
}
