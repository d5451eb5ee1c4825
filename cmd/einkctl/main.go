package main

import "github.com/einkmax/einkctl/cmd/einkctl/cmd"

func main() {
	cmd.Execute()
}
