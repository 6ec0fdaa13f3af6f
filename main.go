package main

import "github.com/kamal-hamza/imgcheck/cmd"

func main() {
	cmd.Execute()
}
