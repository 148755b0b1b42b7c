package cmd

import (
	"fmt"
	"os"

	"github.com/monadlang/monad/internal/replio"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Monad session",
	Long: `Start a read-eval-print loop. Each entered expression is compiled
and executed immediately; 'define'd bindings persist for the rest of
the session. Tab completes bound names and type keywords, and Ctrl-D
exits.

Examples:
  monad repl`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	fmt.Printf("monad %s interactive session (Ctrl-D to exit)\n", Version)
	return replio.New(os.Stdout).Run()
}
