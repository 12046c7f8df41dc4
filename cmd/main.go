package main

import "github.com/handora/gamesapi/internal/cli"

func main() {
	cli.Execute()
}
