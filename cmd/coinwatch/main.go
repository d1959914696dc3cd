package main

import (
	"portfolio-alerts/internal/cli"
)

func main() {
	cli.Execute()
}
