package main

import "github.com/sadopc/plantr/cmd"

func main() {
	cmd.Execute()
}
