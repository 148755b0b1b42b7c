package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/monadlang/monad/internal/codegen"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/driver"
	"github.com/monadlang/monad/internal/env"
	"github.com/monadlang/monad/internal/ir"
	"github.com/spf13/cobra"
)

var (
	buildOutput  string
	emitIR       bool
	emitBC       bool
	emitAsm      bool
	emitObj      bool
	buildDumpAST bool
	buildDumpIR  bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file.mon>",
	Short: "Compile a Monad file to IR, bitcode, object, or a runnable executable",
	Long: `Compile a Monad program to its intermediate representation and, unless
one of the --emit-* flags selects a specific artifact, link a
self-contained executable.

Examples:
  monad build program.mon                # produces ./program
  monad build program.mon -o out --emit-ir
  monad build program.mon --emit-bc --emit-obj`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output base name (default: input stem)")
	buildCmd.Flags().BoolVar(&emitIR, "emit-ir", false, "write <name>.ll")
	buildCmd.Flags().BoolVar(&emitBC, "emit-bc", false, "write <name>.bc")
	buildCmd.Flags().BoolVar(&emitAsm, "emit-asm", false, "write <name>.s")
	buildCmd.Flags().BoolVar(&emitObj, "emit-obj", false, "write <name>.o")
	buildCmd.Flags().BoolVar(&buildDumpAST, "dump-ast", false, "dump the parsed AST before compiling")
	buildCmd.Flags().BoolVar(&buildDumpIR, "dump-ir", false, "dump the compiled IR to stdout")
}

func runBuild(_ *cobra.Command, args []string) error {
	filename := args[0]
	input, _, err := readSource("", args)
	if err != nil {
		return err
	}

	_, program, err := lexAndParse(input, filename)
	if err != nil {
		return err
	}

	if buildDumpAST {
		for _, expr := range program.Exprs {
			fmt.Println(expr.String())
		}
	}

	base := buildOutput
	if base == "" {
		stem := filepath.Base(filename)
		base = strings.TrimSuffix(stem, filepath.Ext(stem))
	}

	builder := ir.NewBuilder(base)
	ctx := codegen.New(builder, codegen.NewBaseEnvironment(), codegen.ModeBatch)
	ctx.Source, ctx.File = input, filename
	if verbose {
		ctx.Echo = os.Stdout
	}
	if err := codegen.CompileProgram(ctx, program); err != nil {
		if d, ok := err.(*diagnostics.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, d.Format(true))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("compilation failed")
	}
	module := builder.Module()

	if buildDumpIR {
		ir.NewDisassembler(module, os.Stdout).Disassemble()
	}
	if verbose {
		fmt.Println("\nSymbol Table:")
		env.Dump(os.Stdout, ctx.Env)
	}

	wantsSpecific := emitIR || emitBC || emitAsm || emitObj
	if emitIR {
		if err := driver.WriteIR(base+".ll", module); err != nil {
			return err
		}
	}
	if emitBC {
		if err := driver.WriteBitcode(base+".bc", module); err != nil {
			return err
		}
	}
	if emitAsm {
		if err := driver.WriteAssembly(base+".s", module); err != nil {
			return err
		}
	}
	if emitObj {
		if err := driver.WriteObject(base+".o", module); err != nil {
			return err
		}
	}
	if !wantsSpecific {
		usedSystemLinker, err := driver.Link(base, module)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "linked %s (system cc found: %v)\n", base, usedSystemLinker)
		}
	}
	return nil
}
