package main

import "warden/cmd/warden/commands"

func main() {
	commands.Execute()
}
