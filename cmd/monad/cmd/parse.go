package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Monad source and display the AST",
	Long: `Parse Monad source code and display the Abstract Syntax Tree.

Examples:
  monad parse script.mon
  monad parse -e "(define (square [x :: Int] -> Int) (* x x))"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "print each top-level expression's parsed tree")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	_, program, err := lexAndParse(input, filename)
	if err != nil {
		return err
	}

	if parseDumpAST || verbose {
		for _, expr := range program.Exprs {
			fmt.Println(expr.String())
		}
		return nil
	}

	fmt.Printf("parsed %d top-level expression(s)\n", len(program.Exprs))
	return nil
}
