package main

import "github.com/Laisky/filedrop/cmd"

func main() {
	cmd.Execute()
}
