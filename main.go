package main

import (
	"github.com/dreamerjackson/salesintel/cmd"
)

func main() {
	cmd.Execute()
}
