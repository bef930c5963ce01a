package main

import (
	"os"

	"github.com/FOUEN/feishin-optimize/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
