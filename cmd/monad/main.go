// Command monad is the Monad language's compiler and REPL front end.
package main

import (
	"fmt"
	"os"

	"github.com/monadlang/monad/cmd/monad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
