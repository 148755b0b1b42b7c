package codegen

import (
	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/env"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/types"
)

// CompileExpr lowers a single AST node into IR. Every node kind leaves
// exactly one value on the operand stack; a caller discarding a
// non-final top-level result is responsible for popping it with
// Builder.CreatePop.
func (c *Context) CompileExpr(node ast.Node) (ir.Value, *types.Type, error) {
	switch n := node.(type) {
	case *ast.Number:
		kind := types.InferLiteral(n.Value, n.Literal)
		if kind == types.Float {
			return c.Builder.ConstFloat(n.Value), types.Primitive(types.Float), nil
		}
		return c.Builder.ConstInt(int64(n.Value)), types.Primitive(kind), nil

	case *ast.Char:
		return c.Builder.ConstChar(int8(n.Value)), types.Primitive(types.Char), nil

	case *ast.String:
		g := c.internString(n.Value)
		return c.Builder.CreateLoadGlobal(g), types.Primitive(types.String), nil

	case *ast.Symbol:
		return c.compileSymbolRef(n)

	case *ast.List:
		return c.compileList(n)

	case *ast.Lambda:
		return ir.Value{}, nil, c.errNode(n, diagnostics.CategorySyntax,
			"lambda is only valid as the value of a define")
	}

	return ir.Value{}, nil, c.errNode(node, diagnostics.CategorySyntax, "unsupported expression")
}

func (c *Context) compileSymbolRef(sym *ast.Symbol) (ir.Value, *types.Type, error) {
	entry, ok := c.Env.Lookup(sym.Name)
	if !ok {
		return ir.Value{}, nil, c.errNode(sym, diagnostics.CategoryReference, "unbound variable: %s", sym.Name)
	}
	switch entry.Kind {
	case env.KindVariable:
		return c.loadVariable(entry.VarStorage), entry.VarType, nil
	case env.KindFunction:
		return ir.Value{}, nil, c.errNode(sym, diagnostics.CategoryReference, "function %q used as a value", sym.Name)
	default:
		return ir.Value{}, nil, c.errNode(sym, diagnostics.CategoryReference, "builtin %q cannot be used as a value", sym.Name)
	}
}

func (c *Context) compileList(list *ast.List) (ir.Value, *types.Type, error) {
	if len(list.Items) == 0 {
		return ir.Value{}, nil, c.errNode(list, diagnostics.CategorySyntax, "empty list is not a valid expression")
	}
	head, ok := list.Items[0].(*ast.Symbol)
	if !ok {
		return ir.Value{}, nil, c.errNode(list.Items[0], diagnostics.CategorySyntax, "list head must be a symbol")
	}

	switch head.Name {
	case "define":
		return c.compileDefine(list)
	case "show":
		return c.compileShow(list)
	case "quote":
		return ir.Value{}, nil, c.errNode(list, diagnostics.CategoryType, "quote is only valid as the argument to show")
	case "+", "-", "*", "/":
		return c.compileArith(head, list.Items[1:])
	default:
		return c.compileCall(head, list.Items[1:])
	}
}
