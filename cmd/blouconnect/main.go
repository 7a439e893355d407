package main

import "blouconnect/internal/cmd"

func main() {
	cmd.Run()
}
