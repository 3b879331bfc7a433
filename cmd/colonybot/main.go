package main

import "github.com/andrescamacho/colonybot-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
