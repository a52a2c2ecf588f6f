package main

import "github.com/jenfonro/sharesync/cmd"

func main() {
	cmd.Execute()
}
