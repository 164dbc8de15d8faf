package main

import (
	"github.com/hward/modsslctl/internal/cli"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
