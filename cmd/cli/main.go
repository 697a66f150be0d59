package main

import "watchroom/cmd/cli/command"

func main() {
	command.Execute()
}
