// Package main is the single-binary entrypoint for CourtSight.
package main

import "github.com/courtsight-ai/courtsight/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
