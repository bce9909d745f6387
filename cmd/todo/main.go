package main

import (
	"os"

	"tasklist/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
