// Command breadcrumb builds, renders and serves breadcrumb trails and loads
// the menus and content they are built from.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "breadcrumb:", err)
		os.Exit(1)
	}
}
