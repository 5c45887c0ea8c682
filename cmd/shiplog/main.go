package main

import (
	"os"

	"github.com/raveheart1/shiplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
