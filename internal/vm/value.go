// Package vm executes Monad's compiled bytecode Module: a small,
// stack-based interpreter standing in for the "run" execution mode and
// for the REPL's per-expression JIT-style evaluation loop.
package vm

import (
	"fmt"

	"github.com/monadlang/monad/internal/ir"
)

// Value is a tagged runtime value: exactly one field is meaningful,
// selected by Kind, mirroring the VM's compile-time ir.ValueKind.
type Value struct {
	Kind ir.ValueKind
	I    int64
	F    float64
	S    string
}

func IntValue(i int64) Value     { return Value{Kind: ir.KindI64, I: i} }
func FloatValue(f float64) Value { return Value{Kind: ir.KindF64, F: f} }
func CharValue(c int8) Value     { return Value{Kind: ir.KindI8, I: int64(c)} }
func StringValue(s string) Value { return Value{Kind: ir.KindPtr, S: s} }

// String renders v the way the `show` runtime helper and the REPL
// result echo do: bare for numbers/chars, unquoted for strings. String
// content is whatever the reader preserved, escapes included.
func (v Value) String() string {
	switch v.Kind {
	case ir.KindI64:
		return fmt.Sprintf("%d", v.I)
	case ir.KindF64:
		return fmt.Sprintf("%g", v.F)
	case ir.KindI8:
		return string(rune(byte(v.I)))
	case ir.KindPtr:
		return v.S
	}
	return "<void>"
}
