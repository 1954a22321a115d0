package main

import "github.com/dchesque/app-loja/cmd"

func main() {
	cmd.Execute()
}
