package main

import (
	"os"
)

const version = "1.0.0"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
