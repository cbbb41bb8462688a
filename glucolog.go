package main

import (
	"github.com/glucolog/glucolog/pipeline"
)

func main() {
	pipeline.MainLoop()
}
