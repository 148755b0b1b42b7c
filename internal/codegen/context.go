// Package codegen lowers Monad's AST into the bytecode-shaped IR defined
// by internal/ir, and supplies the host-side runtime helpers (internal/vm
// externals) that IR calls into for show's printing. A single Context
// threads through every CompileExpr call, whether driven by a batch
// program (the build and run commands in cmd/monad/cmd) or by the REPL's
// one-wrapper-per-line loop (internal/repl).
package codegen

import (
	"fmt"
	"io"

	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/diagnostics"
	"github.com/monadlang/monad/internal/env"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/types"
)

// Mode selects how `define` materializes variable storage.
type Mode int

const (
	// ModeBatch allocates a fresh stack slot per define, as a normal
	// compiled program would.
	ModeBatch Mode = iota
	// ModeREPL allocates a module-level global instead, so a binding
	// survives after its defining wrapper function returns.
	ModeREPL
)

// Context is the shared compilation state threaded through every
// CompileExpr call.
type Context struct {
	Builder *ir.Builder
	Env     *env.Environment
	Mode    Mode

	// Source/File identify the text being compiled, for diagnostics.
	Source string
	File   string

	// Echo receives the "Defined x :: T" compile-time line define emits;
	// nil suppresses it entirely.
	Echo io.Writer

	activeFn  *ir.Function
	externals map[string]*ir.Function
	strings   map[string]ir.Global
}

// New creates a Context compiling into builder, resolving names against
// environment.
func New(builder *ir.Builder, environment *env.Environment, mode Mode) *Context {
	return &Context{
		Builder:   builder,
		Env:       environment,
		Mode:      mode,
		Echo:      io.Discard,
		externals: map[string]*ir.Function{},
		strings:   map[string]ir.Global{},
	}
}

// EnterFunction positions the builder at fn and records it as the
// active function; the caller restores the previous one (the return
// value) once done, via another EnterFunction call. A nil fn restores
// the "no active function" state without repositioning the builder.
func (c *Context) EnterFunction(fn *ir.Function) (prev *ir.Function) {
	prev = c.activeFn
	c.activeFn = fn
	if fn != nil {
		c.Builder.SetInsertPoint(fn)
	}
	return prev
}

func kindToIR(k types.Kind) ir.ValueKind {
	switch k {
	case types.Float:
		return ir.KindF64
	case types.Char:
		return ir.KindI8
	case types.String:
		return ir.KindPtr
	default:
		return ir.KindI64 // Int, Hex, Bin, Oct, Bool
	}
}

func (c *Context) newStackSlot(kind types.Kind, name string) ir.Value {
	return c.Builder.CreateAlloca(kindToIR(kind), name)
}

func (c *Context) newGlobalSlot(kind types.Kind, name string) ir.Global {
	return c.Builder.CreateGlobalVar(name, kindToIR(kind))
}

func (c *Context) storeVariable(storage any, v ir.Value) {
	switch s := storage.(type) {
	case ir.Global:
		c.Builder.CreateStoreGlobal(v, s)
	case ir.Value:
		c.Builder.CreateStore(v, s)
	default:
		panic(fmt.Sprintf("codegen: unknown variable storage handle %T", storage))
	}
}

func (c *Context) loadVariable(storage any) ir.Value {
	switch s := storage.(type) {
	case ir.Global:
		return c.Builder.CreateLoadGlobal(s)
	case ir.Value:
		return c.Builder.CreateLoad(s)
	default:
		panic(fmt.Sprintf("codegen: unknown variable storage handle %T", storage))
	}
}

// bindVariableStorage decides where a define's value lives. In REPL mode,
// re-defining a name that already owns a global of the same backend kind
// reuses that global; every other case allocates fresh storage.
func (c *Context) bindVariableStorage(name string, kind types.Kind) any {
	if c.Mode == ModeREPL {
		if entry, ok := c.Env.Lookup(name); ok && entry.Kind == env.KindVariable {
			if g, ok := entry.VarStorage.(ir.Global); ok && g.Kind == kindToIR(kind) {
				return g
			}
		}
		return c.newGlobalSlot(kind, name)
	}
	return c.newStackSlot(kind, name)
}

// coerceValue converts v (typed from) into to's backend representation.
// Same-variant integer conversions are no-ops: all four integer kinds
// share the i64 backend representation and differ only in provenance.
func (c *Context) coerceValue(v ir.Value, from, to types.Kind) ir.Value {
	if from == to {
		return v
	}
	fromIsInt := from.IsIntegerVariant()
	toIsInt := to.IsIntegerVariant()
	switch {
	case fromIsInt && toIsInt:
		return v
	case from == types.Char && toIsInt:
		return c.Builder.CreateSExt8To64(v)
	case from == types.Char && to == types.Float:
		return c.Builder.CreateSIToFP(c.Builder.CreateSExt8To64(v))
	case fromIsInt && to == types.Float:
		return c.Builder.CreateSIToFP(v)
	case fromIsInt && to == types.Char:
		return c.Builder.CreateTrunc64To8(v)
	case from == types.Float && toIsInt:
		return c.Builder.CreateFPToSI(v)
	case from == types.Float && to == types.Char:
		return c.Builder.CreateTrunc64To8(c.Builder.CreateFPToSI(v))
	default:
		return v
	}
}

// castEmitsCode reports whether coerceValue(from, to) emits at least one
// conversion instruction, as opposed to the integer-variant no-op.
func castEmitsCode(from, to types.Kind) bool {
	if from == to {
		return false
	}
	return !(from.IsIntegerVariant() && to.IsIntegerVariant())
}

// internString returns the Global backing value, creating and caching
// one the first time value is seen.
func (c *Context) internString(value string) ir.Global {
	if g, ok := c.strings[value]; ok {
		return g
	}
	name := fmt.Sprintf("str.%d", len(c.strings))
	g := c.Builder.CreateGlobalString(name, value)
	c.strings[value] = g
	return g
}

// external returns the declared helper function named name, declaring it
// (with one parameter of kind paramKind) the first time it is needed.
func (c *Context) external(name string, paramKind ir.ValueKind) *ir.Function {
	if fn, ok := c.externals[name]; ok {
		return fn
	}
	fn := c.Builder.DeclareExternal(name, []ir.ValueKind{paramKind}, ir.KindVoid, false)
	c.externals[name] = fn
	return fn
}

// echoDefine writes the compile-time "Defined x :: T" line define
// produces (batch phrasing) or its terser REPL equivalent.
func (c *Context) echoDefine(name string, t *types.Type) {
	if c.Echo == nil {
		return
	}
	if c.Mode == ModeREPL {
		fmt.Fprintf(c.Echo, "%s :: %s\n", name, t.String())
		return
	}
	fmt.Fprintf(c.Echo, "Defined %s :: %s\n", name, t.String())
}

func (c *Context) errNode(node ast.Node, category diagnostics.Category, format string, args ...any) error {
	d := diagnostics.NewRange(category, node.Pos(), node.EndColumn(), fmt.Sprintf(format, args...))
	d.Source = c.Source
	d.File = c.File
	return d
}
