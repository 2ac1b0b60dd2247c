package main

import (
	"meetdeck/internal/cli"
)

// Version information (injected at build time)
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	cli.Execute()
}
