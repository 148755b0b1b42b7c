package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/monadlang/monad/internal/codegen"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/driver"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/vm"
	"github.com/spf13/cobra"
)

var (
	runEval    string
	runDumpAST bool
	runDumpIR  bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile and execute a Monad program",
	Long: `Compile a Monad source file (or a previously built .bc bytecode file)
and execute it immediately, the way the self-contained executables
"monad build" produces invoke this same command under the hood.

Examples:
  monad run script.mon
  monad run -e "(show (+ 1 2))"
  monad run program.bc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&runDumpAST, "dump-ast", false, "dump the parsed AST before compiling")
	runCmd.Flags().BoolVar(&runDumpIR, "dump-ir", false, "dump the compiled IR before executing")
}

func runRun(_ *cobra.Command, args []string) error {
	if runEval == "" && len(args) == 1 && strings.HasSuffix(args[0], ".bc") {
		return runBytecodeFile(args[0])
	}

	input, filename, err := readSource(runEval, args)
	if err != nil {
		return err
	}

	_, program, err := lexAndParse(input, filename)
	if err != nil {
		return err
	}

	if runDumpAST {
		for _, expr := range program.Exprs {
			fmt.Println(expr.String())
		}
	}

	builder := ir.NewBuilder(filename)
	ctx := codegen.New(builder, codegen.NewBaseEnvironment(), codegen.ModeBatch)
	ctx.Source, ctx.File = input, filename
	ctx.Echo = os.Stdout
	if err := codegen.CompileProgram(ctx, program); err != nil {
		if d, ok := err.(*diagnostics.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, d.Format(true))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("compilation failed")
	}

	if runDumpIR {
		ir.NewDisassembler(builder.Module(), os.Stdout).Disassemble()
	}

	return execute(builder.Module())
}

func runBytecodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read bytecode file %s: %w", path, err)
	}
	defer f.Close()

	module, err := ir.NewSerializer().Read(f)
	if err != nil {
		return fmt.Errorf("failed to load bytecode file %s: %w", path, err)
	}
	return execute(module)
}

func execute(module *ir.Module) error {
	machine := vm.New(module, os.Stdout)
	codegen.RegisterRuntime(machine)
	result, err := machine.RunEntry()
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	if code := driver.ExitCode(result); code != 0 {
		os.Exit(code)
	}
	return nil
}
