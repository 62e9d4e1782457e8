package main

import "github.com/AntoC-dev/recipelens/cmd/recipelens/cmd"

func main() {
	cmd.Execute()
}
