package main

import "github.com/oshokin/hermesx-build/cmd/hermesx-fontgen/cmd"

func main() {
	cmd.Execute()
}
