// Command panes is a tabbed terminal file manager whose column values,
// folder sizes and directory updates are computed in the background.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
