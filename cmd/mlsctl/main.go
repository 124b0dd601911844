package main

import (
	"os"

	"mlserve/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
