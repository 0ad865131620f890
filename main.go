package main

import (
	"wavebox/cmd"
)

func main() {
	cmd.Execute()
}
