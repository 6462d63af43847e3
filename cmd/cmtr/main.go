package main

import (
	"os"

	"github.com/shayne/cmtr/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
