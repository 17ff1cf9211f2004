package main

import "github.com/shpala/gl100/cmd"

func main() {
	cmd.Execute()
}
