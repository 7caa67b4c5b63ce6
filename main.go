package main

import "github.com/theirongolddev/advisor/cmd"

func main() {
	cmd.Execute()
}
