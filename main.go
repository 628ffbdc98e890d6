package main

import "github.com/inovacc/journal/cmd"

func main() {
	cmd.Execute()
}
