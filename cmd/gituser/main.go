package main

import (
	"github.com/gituser-cli/gituser/internal/cmd"
)

func main() {
	cmd.Execute()
}
