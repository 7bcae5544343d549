package main

import (
	"os"

	"askyourdata/cli"
)

func main() {
	os.Exit(cli.Execute())
}
