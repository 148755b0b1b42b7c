package codegen

import (
	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/ir"
)

// CompileProgram lowers every top-level expression of prog into a
// single "main" function: all but the last are compiled for effect
// only (their value is popped), and the last supplies main's result.
// Converting that result to an OS exit code, if one is needed, is a
// driver-level concern, not this function's.
func CompileProgram(c *Context, prog *ast.Program) error {
	main := c.Builder.CreateFunction("main", nil, ir.KindI64)
	c.Builder.Module().EntryFunction = main
	c.EnterFunction(main)

	var last ir.Value
	haveLast := false
	for i, expr := range prog.Exprs {
		v, _, err := c.CompileExpr(expr)
		if err != nil {
			return err
		}
		if i == len(prog.Exprs)-1 {
			last = v
			haveLast = true
		} else {
			c.Builder.CreatePop()
		}
	}
	if !haveLast {
		last = c.Builder.ConstInt(0)
	}
	c.Builder.CreateRet(last)
	return c.Builder.FinishFunction(main)
}
