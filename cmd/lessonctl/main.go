// Command lessonctl manages the A1 lesson module store: it validates and
// prints the content, migrates legacy exports, writes the web bundle and
// publishes modules to PostgreSQL.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
