// Command landingctl drives the landing page builder engine from the shell:
// pricing and validating selections, rendering and publishing previews,
// seeding catalog databases, and running the live market simulation.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
