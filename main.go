package main

import "github.com/peekknuf/rarity/cmd"

func main() {
	cmd.Execute()
}
