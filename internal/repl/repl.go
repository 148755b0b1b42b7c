// Package repl drives Monad's read-eval-print loop: each entered line
// compiles into its own uniquely named, self-contained nullary wrapper
// function (`__repl_expr_<n>`), JIT-executed immediately. `define`d
// variables live in module globals rather than stack allocas so they
// persist across wrapper invocations, the one REPL-specific twist on
// the otherwise shared batch codegen path (internal/codegen).
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/codegen"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/lexer"
	"github.com/monadlang/monad/internal/parser"
	"github.com/monadlang/monad/internal/vm"
)

// Session holds every piece of state that must outlive a single line:
// the accumulating module, the persistent environment, and the VM
// whose global table grows as new top-level bindings are defined.
type Session struct {
	builder      *ir.Builder
	ctx          *codegen.Context
	machine      *vm.VM
	exprCount    int
	knownGlobals int
}

// New creates a Session whose runtime output (print/show, and the
// "name :: Type" define echo) is written to out.
func New(out io.Writer) *Session {
	builder := ir.NewBuilder("repl")
	environment := codegen.NewBaseEnvironment()
	ctx := codegen.New(builder, environment, codegen.ModeREPL)
	ctx.Echo = out

	machine := vm.New(builder.Module(), out)
	codegen.RegisterRuntime(machine)

	return &Session{builder: builder, ctx: ctx, machine: machine}
}

// Names returns every name currently bound in the session's environment,
// for tab completion.
func (s *Session) Names() []string { return s.ctx.Env.Names() }

// Eval compiles and executes one line. A non-nil error is a recoverable
// diagnostic: the caller should report it and keep prompting. When the
// line fails to compile, its half-built wrapper is removed from the
// module (ir.Builder.DeleteFunction only removes the most recently
// created function), while string constants, externals and functions
// declared before the failure stay in the module. A line that compiles
// but fails at run time keeps its wrapper and any bindings its defines
// added to the environment.
func (s *Session) Eval(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	l := lexer.New(line)
	p := parser.New(l)
	node := p.ParseExpr()
	if errs := l.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s", errs[0].Message)
	}
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s", errs[0].Message)
	}

	shouldPrint := !isSuppressed(node)

	name := fmt.Sprintf("__repl_expr_%d", s.exprCount)
	wrapper := s.builder.CreateFunction(name, nil, ir.KindVoid)
	prevFn := s.ctx.EnterFunction(wrapper)

	v, t, err := s.ctx.CompileExpr(node)
	if err != nil {
		s.builder.DeleteFunction(wrapper)
		s.ctx.EnterFunction(prevFn)
		return err
	}

	if shouldPrint {
		s.ctx.EmitAutoPrint(v, t)
	}
	s.builder.CreateRetVoid()
	if ferr := s.builder.FinishFunction(wrapper); ferr != nil {
		s.builder.DeleteFunction(wrapper)
		s.ctx.EnterFunction(prevFn)
		return ferr
	}
	s.ctx.EnterFunction(prevFn)

	s.knownGlobals = syncGlobals(s.machine, s.builder.Module(), s.knownGlobals)

	if _, err := s.machine.RunFunction(wrapper, nil); err != nil {
		return err
	}
	s.exprCount++
	return nil
}

// isSuppressed reports whether node's own special-form codegen already
// prints its result, so the REPL shouldn't also auto-print it.
func isSuppressed(node ast.Node) bool {
	list, ok := node.(*ast.List)
	if !ok || len(list.Items) == 0 {
		return false
	}
	head, ok := list.Items[0].(*ast.Symbol)
	if !ok {
		return false
	}
	return head.Name == "define" || head.Name == "show"
}

// syncGlobals grows the VM's global table to match however many globals
// the module now declares (a define or a quoted-show string literal may
// have added some since the last line), and seeds any new string
// global's content the way vm.New seeds them at construction.
func syncGlobals(machine *vm.VM, module *ir.Module, knownCount int) int {
	total := len(module.Globals)
	machine.GrowGlobals(total)
	for i := knownCount; i < total; i++ {
		if module.Globals[i].Kind == ir.KindPtr {
			if str, ok := module.GlobalStrings[i]; ok {
				machine.SetGlobal(i, vm.StringValue(str))
			}
		}
	}
	return total
}
