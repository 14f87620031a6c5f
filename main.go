package main

import "github.com/peekknuf/appprofile/cmd"

func main() {
	cmd.Execute()
}
