package main

import "github.com/Ekam-Bitt/eld-trip-planner-public/cmd"

func main() {
	cmd.Execute()
}
