package codegen

import (
	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/env"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/types"
)

// compileCall lowers `(<head> <args...>)` where head is not one of the
// special forms or arithmetic operators: a user function call.
func (c *Context) compileCall(head *ast.Symbol, args []ast.Node) (ir.Value, *types.Type, error) {
	entry, ok := c.Env.Lookup(head.Name)
	if !ok {
		return ir.Value{}, nil, c.errNode(head, diagnostics.CategoryReference, "unbound variable: %s", head.Name)
	}
	switch entry.Kind {
	case env.KindFunction:
		return c.compileFunctionCall(head, entry, args)
	case env.KindVariable:
		return ir.Value{}, nil, c.errNode(head, diagnostics.CategoryReference, "variable %q is not callable", head.Name)
	default:
		return ir.Value{}, nil, c.errNode(head, diagnostics.CategoryArity, "builtin %q cannot be called directly", head.Name)
	}
}

func (c *Context) compileFunctionCall(head *ast.Symbol, entry env.Entry, args []ast.Node) (ir.Value, *types.Type, error) {
	if len(args) != len(entry.FnParams) {
		return ir.Value{}, nil, c.errNode(head, diagnostics.CategoryArity,
			"function %q expects %d argument(s), got %d", head.Name, len(entry.FnParams), len(args))
	}

	argVals := make([]ir.Value, len(args))
	for i, argNode := range args {
		v, t, err := c.CompileExpr(argNode)
		if err != nil {
			return ir.Value{}, nil, err
		}
		paramType := entry.FnParams[i].Type
		if !types.Equals(paramType, t) {
			v = c.coerceValue(v, t.Kind, paramType.Kind)
		}
		argVals[i] = v
	}

	fn := entry.FnHandle.(*ir.Function)
	result := c.Builder.CreateCall(fn, argVals)
	return result, entry.FnReturnType, nil
}
