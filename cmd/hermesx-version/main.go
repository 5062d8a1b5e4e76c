package main

import "github.com/oshokin/hermesx-build/cmd/hermesx-version/cmd"

func main() {
	cmd.Execute()
}
