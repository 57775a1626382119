package main

import "rolebot/cmd"

func main() {
	cmd.Execute()
}
