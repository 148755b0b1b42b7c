package codegen

import (
	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/types"
)

// compileArith lowers a variadic `(+ a b c...)`-shaped form as a left
// fold, running the coercion lattice between the running result and
// each subsequent operand. A single operand dispatches to unary
// negate/reciprocal for "-"/"/"; "+" and "*" pass a lone numeric
// operand through unchanged.
func (c *Context) compileArith(head *ast.Symbol, args []ast.Node) (ir.Value, *types.Type, error) {
	entry, _ := c.Env.Lookup(head.Name)
	if len(args) < entry.ArityMin || (entry.ArityMax != -1 && len(args) > entry.ArityMax) {
		return ir.Value{}, nil, c.errNode(head, diagnostics.CategoryArity,
			"'%s' requires at least %d argument(s)", head.Name, entry.ArityMin)
	}

	firstVal, firstType, err := c.CompileExpr(args[0])
	if err != nil {
		return ir.Value{}, nil, err
	}

	if len(args) == 1 {
		switch head.Name {
		case "-":
			return c.compileUnaryNeg(args[0], firstVal, firstType)
		case "/":
			return c.compileUnaryReciprocal(args[0], firstVal, firstType)
		default:
			if !firstType.Kind.IsNumeric() {
				return ir.Value{}, nil, c.errNode(args[0], diagnostics.CategoryType,
					"non-numeric operand to arithmetic: %s", firstType.Kind)
			}
			return firstVal, firstType, nil
		}
	}

	resultVal, resultType := firstVal, firstType
	for _, rhsNode := range args[1:] {
		rhsVal, rhsType, err := c.CompileExpr(rhsNode)
		if err != nil {
			return ir.Value{}, nil, err
		}
		coerced, cerr := types.Coerce(resultType.Kind, rhsType.Kind)
		if cerr != nil {
			return ir.Value{}, nil, c.errNode(rhsNode, diagnostics.CategoryType, "%s", cerr.Error())
		}
		if castEmitsCode(resultType.Kind, coerced) {
			// The running result sits under the operand just compiled;
			// spill the operand so the cast reaches the result first.
			tmp := c.Builder.CreateAlloca(kindToIR(rhsType.Kind), "")
			c.Builder.CreateStore(rhsVal, tmp)
			resultVal = c.coerceValue(resultVal, resultType.Kind, coerced)
			rhsVal = c.Builder.CreateLoad(tmp)
		}
		rhsV := c.coerceValue(rhsVal, rhsType.Kind, coerced)
		resultVal = c.Builder.CreateBinOp(arithOp(head.Name), kindToIR(coerced), resultVal, rhsV)
		resultType = types.Primitive(coerced)
	}
	return resultVal, resultType, nil
}

func arithOp(sym string) ir.BinOp {
	switch sym {
	case "+":
		return ir.OpAdd
	case "-":
		return ir.OpSub
	case "*":
		return ir.OpMul
	case "/":
		return ir.OpDiv
	}
	panic("codegen: unreachable arithmetic symbol " + sym)
}

func (c *Context) compileUnaryNeg(node ast.Node, v ir.Value, t *types.Type) (ir.Value, *types.Type, error) {
	switch {
	case t.Kind == types.Float:
		return c.Builder.CreateUnaryOp(ir.OpNeg, ir.KindF64, v), t, nil
	case t.Kind == types.Char:
		ext := c.Builder.CreateSExt8To64(v)
		return c.Builder.CreateUnaryOp(ir.OpNeg, ir.KindI64, ext), types.Primitive(types.Int), nil
	case t.Kind.IsIntegerVariant():
		return c.Builder.CreateUnaryOp(ir.OpNeg, ir.KindI64, v), t, nil
	default:
		return ir.Value{}, nil, c.errNode(node, diagnostics.CategoryType, "non-numeric operand to arithmetic: %s", t.Kind)
	}
}

func (c *Context) compileUnaryReciprocal(node ast.Node, v ir.Value, t *types.Type) (ir.Value, *types.Type, error) {
	if !t.Kind.IsNumeric() {
		return ir.Value{}, nil, c.errNode(node, diagnostics.CategoryType, "non-numeric operand to arithmetic: %s", t.Kind)
	}
	fv := v
	switch {
	case t.Kind == types.Char:
		fv = c.Builder.CreateSIToFP(c.Builder.CreateSExt8To64(v))
	case t.Kind == types.Float:
		// already float
	default:
		fv = c.Builder.CreateSIToFP(v)
	}
	// The constant dividend must sit under the operand on the stack.
	tmp := c.Builder.CreateAlloca(ir.KindF64, "")
	c.Builder.CreateStore(fv, tmp)
	one := c.Builder.ConstFloat(1.0)
	fv = c.Builder.CreateLoad(tmp)
	return c.Builder.CreateBinOp(ir.OpDiv, ir.KindF64, one, fv), types.Primitive(types.Float), nil
}
