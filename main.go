package main

import "github.com/theirongolddev/procdash/cmd"

func main() {
	cmd.Execute()
}
