package main

import "github.com/agiangrant/ctdcore/cmd/ctd/commands"

func main() {
	commands.Execute()
}
