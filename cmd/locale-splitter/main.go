package main

import "locale-splitter/internal/cli"

func main() {
	cli.Execute()
}
