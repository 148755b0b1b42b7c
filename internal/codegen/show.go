package codegen

import (
	"strconv"
	"strings"

	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/types"
)

// compileShow lowers `(show <arg>)`. A `(quote e)` argument prints e's
// textual form without evaluating it; any other argument is evaluated
// and routed to the runtime print helper matching its static type;
// Hex/Bin/Oct keep their own base-preserving formatting rather than
// collapsing to plain decimal.
func (c *Context) compileShow(list *ast.List) (ir.Value, *types.Type, error) {
	entry, _ := c.Env.Lookup("show")
	argc := len(list.Items) - 1
	if argc < entry.ArityMin || (entry.ArityMax != -1 && argc > entry.ArityMax) {
		return ir.Value{}, nil, c.errNode(list, diagnostics.CategoryArity,
			"'show' requires exactly 1 argument, got %d", argc)
	}
	arg := list.Items[1]

	if quoted, ok := quotedArgument(arg); ok {
		text := quotedText(quoted) + "\n"
		g := c.internString(text)
		raw := c.external("print_raw", ir.KindPtr)
		c.Builder.CreateCallVariadic(raw, []ir.Value{c.Builder.CreateLoadGlobal(g)})
		c.Builder.CreatePop()
		return c.Builder.ConstFloat(0), types.Primitive(types.Float), nil
	}

	v, t, err := c.CompileExpr(arg)
	if err != nil {
		return ir.Value{}, nil, err
	}

	name, paramKind := showExternalFor(t.Kind)
	fn := c.external(name, paramKind)
	c.Builder.CreateCallVariadic(fn, []ir.Value{v})
	c.Builder.CreatePop()
	return c.Builder.ConstFloat(0), types.Primitive(types.Float), nil
}

// EmitAutoPrint emits a print call for v (typed t), then pushes a fresh
// placeholder so the caller's function body still has exactly one value
// on the stack afterward (for its own CreateRet/CreateRetVoid to
// consume). The REPL uses this to echo a bare expression's value
// without the user writing `show` explicitly.
//
// Unlike explicit `show`, auto-print collapses every integer variant
// (Int/Hex/Bin/Oct alike) to the same plain decimal formatting: base
// provenance is a `show`-only display concern, not a REPL-echo one.
func (c *Context) EmitAutoPrint(v ir.Value, t *types.Type) {
	name, paramKind := autoPrintExternalFor(t.Kind)
	fn := c.external(name, paramKind)
	c.Builder.CreateCallVariadic(fn, []ir.Value{v})
	c.Builder.CreatePop()
	c.Builder.ConstFloat(0)
}

func autoPrintExternalFor(k types.Kind) (string, ir.ValueKind) {
	switch k {
	case types.Char:
		return "print_char", ir.KindI8
	case types.String:
		return "print_string", ir.KindPtr
	case types.Int, types.Hex, types.Bin, types.Oct:
		return "print_int", ir.KindI64
	default:
		return "print_float", ir.KindF64
	}
}

func showExternalFor(k types.Kind) (string, ir.ValueKind) {
	switch k {
	case types.Char:
		return "print_char", ir.KindI8
	case types.String:
		return "print_string", ir.KindPtr
	case types.Hex:
		return "print_hex", ir.KindI64
	case types.Bin:
		return "print_bin", ir.KindI64
	case types.Oct:
		return "print_oct", ir.KindI64
	case types.Int:
		return "print_int", ir.KindI64
	default:
		return "print_float", ir.KindF64
	}
}

// quotedArgument reports whether arg is a `(quote e)` form and, if so,
// returns e.
func quotedArgument(arg ast.Node) (ast.Node, bool) {
	list, ok := arg.(*ast.List)
	if !ok || list.Bracketed || len(list.Items) != 2 {
		return nil, false
	}
	head, ok := list.Items[0].(*ast.Symbol)
	if !ok || head.Name != "quote" {
		return nil, false
	}
	return list.Items[1], true
}

// quotedText renders a quoted AST node's printed form: numbers via %g,
// strings/chars with their surface quoting, symbols bare, and lists
// space-separated with no per-item newline — only the outermost show
// call appends one, once, after the whole structure.
func quotedText(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Number:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *ast.Symbol:
		return v.Name
	case *ast.String:
		return `"` + v.Value + `"`
	case *ast.Char:
		return "'" + string(rune(v.Value)) + "'"
	case *ast.List:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = quotedText(item)
		}
		open, close := "(", ")"
		if v.Bracketed {
			open, close = "[", "]"
		}
		return open + strings.Join(parts, " ") + close
	default:
		return n.String()
	}
}
