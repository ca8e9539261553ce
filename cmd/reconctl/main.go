package main

import "github.com/recondash/recondash/cmd/reconctl/cli"

func main() {
	cli.Execute()
}
