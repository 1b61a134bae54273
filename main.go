package main

import (
	"os"

	"github.com/teamcutter/xtract/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
