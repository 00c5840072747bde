package main

import "ternsnip/internal/cli"

func main() {
	cli.Execute()
}
