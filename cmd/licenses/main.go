package main

import "github.com/brimblehq/licenses/internal/cli"

func main() {
	cli.Execute()
}
