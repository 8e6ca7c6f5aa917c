package main

import "github.com/aalvaropc/wallclock/internal/cli"

func main() {
	cli.Execute()
}
