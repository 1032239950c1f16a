// Command aeriesim is a reference CLI over the simulation kernel: it loads
// one plan, or an old/new pair to exercise incremental re-simulation in the
// same process, and prints the resulting spans and event history.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
