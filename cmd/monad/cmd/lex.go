package cmd

import (
	"fmt"
	"os"

	"github.com/monadlang/monad/internal/lexer"
	"github.com/monadlang/monad/internal/token"
	"github.com/spf13/cobra"
)

var (
	lexEval    string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Monad file or expression",
	Long: `Tokenize (lex) a Monad program and print the resulting tokens.

Examples:
  monad lex script.mon
  monad lex -e "(+ 1 2)"
  monad lex --show-type --show-pos script.mon`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only illegal/error tokens")
}

func runLex(_ *cobra.Command, args []string) error {
	input, _, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		if !onlyErrors || tok.Type == token.ILLEGAL {
			printToken(tok)
		}
		if tok.Type == token.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", e.Pos, e.Message)
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	return nil
}

func printToken(tok token.Token) {
	switch {
	case showType && showPos:
		fmt.Printf("%-10s %-10s %q\n", tok.Pos, tok.Type, tok.Literal)
	case showType:
		fmt.Printf("%-10s %q\n", tok.Type, tok.Literal)
	case showPos:
		fmt.Printf("%-10s %q\n", tok.Pos, tok.Literal)
	default:
		fmt.Printf("%q\n", tok.Literal)
	}
}
