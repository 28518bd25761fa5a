package main

import "github.com/inkboundsociety/fundraiser/internal/cli"

func main() {
	cli.Execute()
}
