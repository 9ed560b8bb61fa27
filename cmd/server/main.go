package main

import "packing_tracker/internal/cmd"

func main() {
	cmd.Execute()
}
