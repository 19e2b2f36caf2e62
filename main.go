package main

import "lchat/internal/cli"

func main() {
	cli.Execute()
}
