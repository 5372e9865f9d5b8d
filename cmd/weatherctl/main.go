package main

import (
	"os"
)

func main() {
	if err := newRootCmd(loadServices).Execute(); err != nil {
		os.Exit(1)
	}
}
