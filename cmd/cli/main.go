package main

import "campusmess/cmd/cli/command"

func main() {
	command.Execute()
}
