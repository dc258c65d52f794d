package main

import "github.com/gedkit/gedpdf/cmd"

func main() {
	cmd.Execute()
}
