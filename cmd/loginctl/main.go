package main

import "github.com/nfrund/loginpage/cmd/loginctl/cmd"

func main() {
	cmd.Execute()
}
