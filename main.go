package main

import (
	"log"

	"github.com/codalotl/fileedit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
