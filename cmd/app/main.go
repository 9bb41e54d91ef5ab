package main

import "github.com/intothevoid/tftsight/pkg/cli"

func main() {
	cli.Execute()
}
