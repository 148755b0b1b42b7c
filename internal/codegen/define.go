package codegen

import (
	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/env"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/types"
)

// compileDefine lowers `(define <target> <value>)` in all three shapes:
// a bare symbol, a `[name :: Type]` annotation, or (once the parser has
// desugared short-form function define) a symbol paired with a Lambda
// value.
func (c *Context) compileDefine(list *ast.List) (ir.Value, *types.Type, error) {
	if len(list.Items) != 3 {
		return ir.Value{}, nil, c.errNode(list, diagnostics.CategoryArity,
			"'define' requires exactly 2 arguments, got %d", len(list.Items)-1)
	}
	target := list.Items[1]
	valueNode := list.Items[2]

	if lambda, ok := valueNode.(*ast.Lambda); ok {
		nameSym, ok := target.(*ast.Symbol)
		if !ok {
			return ir.Value{}, nil, c.errNode(target, diagnostics.CategorySyntax,
				"function name in 'define' must be a bare symbol")
		}
		return c.compileFunctionDefine(nameSym, lambda)
	}

	switch t := target.(type) {
	case *ast.Symbol:
		return c.compileSimpleDefine(t, valueNode)
	case *ast.List:
		nameSym, typeName, err := parseAnnotationTarget(c, t)
		if err != nil {
			return ir.Value{}, nil, err
		}
		return c.compileAnnotatedDefine(nameSym, typeName, t, valueNode)
	default:
		return ir.Value{}, nil, c.errNode(target, diagnostics.CategorySyntax,
			"'define' target must be a symbol or [name :: Type] annotation")
	}
}

// parseAnnotationTarget extracts name/typeName from a `[name :: Type]`
// bracket list (three Symbol items produced by the parser); a one-item
// bracket is a nameless annotation, rejected here rather than in the
// parser since it is syntactically well-formed but semantically invalid
// as a define target.
func parseAnnotationTarget(c *Context, list *ast.List) (*ast.Symbol, string, error) {
	if !list.Bracketed {
		return nil, "", c.errNode(list, diagnostics.CategorySyntax,
			"'define' target must be a symbol or [name :: Type] annotation")
	}
	if len(list.Items) == 1 {
		return nil, "", c.errNode(list, diagnostics.CategoryReference,
			"nameless type annotation is not a valid 'define' target")
	}
	if len(list.Items) != 3 {
		return nil, "", c.errNode(list, diagnostics.CategorySyntax, "expected [name :: Type] annotation")
	}
	name, ok := list.Items[0].(*ast.Symbol)
	if !ok {
		return nil, "", c.errNode(list.Items[0], diagnostics.CategorySyntax, "expected parameter name in annotation")
	}
	sep, ok := list.Items[1].(*ast.Symbol)
	if !ok || sep.Name != "::" {
		return nil, "", c.errNode(list.Items[1], diagnostics.CategorySyntax, "expected '::' in type annotation")
	}
	typeName, ok := list.Items[2].(*ast.Symbol)
	if !ok {
		return nil, "", c.errNode(list.Items[2], diagnostics.CategorySyntax, "expected type name in annotation")
	}
	return name, typeName.Name, nil
}

func (c *Context) compileSimpleDefine(nameSym *ast.Symbol, valueNode ast.Node) (ir.Value, *types.Type, error) {
	v, t, err := c.CompileExpr(valueNode)
	if err != nil {
		return ir.Value{}, nil, err
	}
	storage := c.bindVariableStorage(nameSym.Name, t.Kind)
	c.storeVariable(storage, v)
	result := c.loadVariable(storage)
	c.Env.InsertVariable(nameSym.Name, t, storage)
	c.echoDefine(nameSym.Name, t)
	return result, t, nil
}

func (c *Context) compileAnnotatedDefine(nameSym *ast.Symbol, typeName string, annotationNode *ast.List, valueNode ast.Node) (ir.Value, *types.Type, error) {
	declaredKind := types.ParseAnnotationName(typeName)
	if declaredKind == types.Unknown {
		return ir.Value{}, nil, c.errNode(annotationNode, diagnostics.CategoryType, "unknown type annotation: %s", typeName)
	}
	v, t, err := c.CompileExpr(valueNode)
	if err != nil {
		return ir.Value{}, nil, err
	}
	if declaredKind != t.Kind {
		v = c.coerceValue(v, t.Kind, declaredKind)
	}
	declaredType := types.Primitive(declaredKind)
	storage := c.bindVariableStorage(nameSym.Name, declaredKind)
	c.storeVariable(storage, v)
	result := c.loadVariable(storage)
	c.Env.InsertVariable(nameSym.Name, declaredType, storage)
	c.echoDefine(nameSym.Name, declaredType)
	return result, declaredType, nil
}

// compileFunctionDefine materializes a user function: a fresh IR
// function, a child environment binding its parameters to their
// already-reserved local slots, and restoration of the outer
// environment (and insert point) once the body is compiled.
func (c *Context) compileFunctionDefine(nameSym *ast.Symbol, lambda *ast.Lambda) (ir.Value, *types.Type, error) {
	params := make([]env.FunctionParam, len(lambda.Params))
	fnParamTypes := make([]types.FnParam, len(lambda.Params))
	irParamKinds := make([]ir.ValueKind, len(lambda.Params))

	for i, p := range lambda.Params {
		kind := types.Float
		if p.TypeName != "" {
			kind = types.ParseAnnotationName(p.TypeName)
			if kind == types.Unknown {
				return ir.Value{}, nil, c.errNode(nameSym, diagnostics.CategoryType,
					"unknown parameter type annotation: %s", p.TypeName)
			}
		}
		t := types.Primitive(kind)
		params[i] = env.FunctionParam{Name: p.Name, Type: t}
		fnParamTypes[i] = types.FnParam{Name: p.Name, Type: t}
		irParamKinds[i] = kindToIR(kind)
	}

	var retType *types.Type
	retIRKind := ir.KindF64
	if lambda.ReturnType != "" {
		rk := types.ParseAnnotationName(lambda.ReturnType)
		if rk == types.Unknown {
			return ir.Value{}, nil, c.errNode(nameSym, diagnostics.CategoryType,
				"unknown return type annotation: %s", lambda.ReturnType)
		}
		retType = types.Primitive(rk)
		retIRKind = kindToIR(rk)
	}

	fn := c.Builder.CreateFunction(nameSym.Name, irParamKinds, retIRKind)

	outerEnv := c.Env
	prevFn := c.EnterFunction(fn)

	bodyEnv := outerEnv.Clone()
	for i, p := range lambda.Params {
		bodyEnv.InsertVariable(p.Name, fnParamTypes[i].Type, c.Builder.Param(i))
	}
	c.Env = bodyEnv

	bodyVal, bodyType, err := c.CompileExpr(lambda.Body)
	if err != nil {
		c.Env = outerEnv
		c.EnterFunction(prevFn)
		return ir.Value{}, nil, err
	}

	if retType == nil {
		retType = bodyType
		fn.ReturnKind = kindToIR(retType.Kind)
	} else if retType.Kind != bodyType.Kind {
		bodyVal = c.coerceValue(bodyVal, bodyType.Kind, retType.Kind)
	}
	c.Builder.CreateRet(bodyVal)
	c.Builder.FinishFunction(fn)

	c.Env = outerEnv
	c.EnterFunction(prevFn)

	c.Env.InsertFunction(nameSym.Name, params, retType, fn, lambda.Docstring)
	fnType := types.NewFn(fnParamTypes, retType)
	c.echoDefine(nameSym.Name, fnType)

	return c.Builder.ConstFloat(0), types.Primitive(types.Float), nil
}
