package main

import "github.com/einkmax/einkctl/cmd/eink-agent/cmd"

func main() {
	cmd.Execute()
}
