package main

import (
	"github.com/windward-game/windward/internal/cli"
)

func main() {
	cli.Execute()
}
