package main

import "boardsweep/cmd"

func main() {
	cmd.Execute()
}
