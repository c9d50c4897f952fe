// Command scalecharts builds scaling-law charts from CSV datasets.
package main

import (
	"os"

	"github.com/scalelab/scalecharts/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
