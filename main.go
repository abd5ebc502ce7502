package main

import "github.com/ghweekly/ghweekly/cmd"

func main() {
	cmd.Execute()
}
