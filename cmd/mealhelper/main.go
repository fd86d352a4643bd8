package main

import (
	"github.com/mealhelper/mealhelper/cmd/mealhelper/commands"
)

func main() {
	commands.Execute()
}
