// The main package for the channelscout executable.
package main

import (
	"github.com/venturehunt/channelscout/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
