package main

import (
	"os"

	"github.com/msto63/forsure/cmd/forsure/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
