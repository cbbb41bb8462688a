package main

import "github.com/glucolog/glucolog/cmd/glucolog/command"

func main() {
	command.Execute()
}
