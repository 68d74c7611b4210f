package main

import (
	"github.com/imRyuukii/LoginPage/cmd/cli"
)

func main() {
	cli.Execute()
}
