package main

import "github.com/johns/vibe-reflect/internal/cli"

const version = "0.1.0"

func main() {
	cli.Version = version
	cli.Execute()
}
