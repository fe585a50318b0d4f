package main

import (
	"github.com/ttomsu/halyard/pkg/cli"
)

func main() {
	cli.Execute()
}
