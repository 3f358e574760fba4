package main

import "github.com/oshokin/json-persistence/cmd/json-persistence/cmd"

func main() {
	cmd.Execute()
}
