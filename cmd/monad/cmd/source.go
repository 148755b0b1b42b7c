package cmd

import (
	"fmt"
	"os"

	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/lexer"
	"github.com/monadlang/monad/internal/parser"
)

// readSource loads the program text from args[0], or from -e/evalExpr
// when set, the same "file, or inline -e expression" convention every
// subcommand below follows.
func readSource(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

// lexAndParse runs the shared front end, printing any lexical or
// syntactic diagnostics to stderr and returning a plain error if either
// phase failed.
func lexAndParse(input, filename string) (*parser.Parser, *ast.Program, error) {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := l.Errors(); len(errs) > 0 {
		diags := make([]*diagnostics.Diagnostic, len(errs))
		for i, e := range errs {
			d := diagnostics.New(diagnostics.CategoryLexical, e.Pos, e.Message)
			d.Source, d.File = input, filename
			diags[i] = d
		}
		fmt.Fprintln(os.Stderr, diagnostics.FormatAll(diags, true))
		return nil, nil, fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	if errs := p.Errors(); len(errs) > 0 {
		diags := make([]*diagnostics.Diagnostic, len(errs))
		for i, e := range errs {
			d := diagnostics.New(diagnostics.CategorySyntax, e.Pos, e.Message)
			d.Source, d.File = input, filename
			diags[i] = d
		}
		fmt.Fprintln(os.Stderr, diagnostics.FormatAll(diags, true))
		return nil, nil, fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}
	return p, program, nil
}
