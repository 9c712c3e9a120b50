package main

import "github.com/impresso-project/lid-ensemble-go/cmd"

func main() {
	cmd.Execute()
}
