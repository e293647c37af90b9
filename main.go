package main

import "fqtrim/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
