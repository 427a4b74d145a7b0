package main

import (
	_ "embed"
	"strings"

	"github.com/jettrobinson87/the-tape/cmd"
)

//go:embed VERSION
var version string

func main() {
	cmd.SetVersion(strings.TrimSpace(version))
	cmd.Execute()
}
