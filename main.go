package main

import "github.com/agentic-research/ublgen/cmd"

func main() {
	cmd.Execute()
}
