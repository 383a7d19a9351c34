package main

import "github.com/javanhut/topograph/cli"

func main() {
	cli.Execute()
}
