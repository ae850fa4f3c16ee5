package main

import (
	"os"

	"github.com/RyanBlaney/sonido-features/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logging.Error(err, "command failed")
		os.Exit(1)
	}
}
