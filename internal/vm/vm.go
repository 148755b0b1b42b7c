package vm

import (
	"fmt"
	"io"
	"math"

	"github.com/monadlang/monad/internal/ir"
)

const defaultStackCapacity = 64

// RuntimeError is a fault raised while executing a chunk: an external
// call failure or a guest-level division by zero.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// ExternalFunc is a host function reachable via OpCallExternal: the
// driver/REPL layer registers these (print/show, mostly) by the same
// name under which the external was declared in the ir.Module.
type ExternalFunc func(vm *VM, args []Value) (Value, error)

// VM executes ir.Module chunks with a simple operand stack.
type VM struct {
	module    *ir.Module
	output    io.Writer
	externals map[string]ExternalFunc
	globals   []Value
	stack     []Value
}

// New creates a VM bound to module, writing any runtime output (from
// print/show externals) to out.
func New(module *ir.Module, out io.Writer) *VM {
	v := &VM{
		module:    module,
		output:    out,
		externals: map[string]ExternalFunc{},
		globals:   make([]Value, len(module.Globals)),
		stack:     make([]Value, 0, defaultStackCapacity),
	}
	for i, g := range module.Globals {
		if g.Kind == ir.KindPtr {
			if str, ok := module.GlobalStrings[i]; ok {
				v.globals[i] = StringValue(str)
			}
		}
	}
	return v
}

// Output returns the writer runtime externals should write to.
func (v *VM) Output() io.Writer { return v.output }

// RegisterExternal binds name (as declared via ir.IRBuilder.DeclareExternal)
// to its host implementation.
func (v *VM) RegisterExternal(name string, fn ExternalFunc) {
	v.externals[name] = fn
}

// SetGlobal overwrites global slot idx directly; used by the REPL to
// seed/update persistent top-level bindings across evaluations.
func (v *VM) SetGlobal(idx int, val Value) {
	if idx >= 0 && idx < len(v.globals) {
		v.globals[idx] = val
	}
}

// Global reads global slot idx.
func (v *VM) Global(idx int) Value {
	if idx >= 0 && idx < len(v.globals) {
		return v.globals[idx]
	}
	return Value{}
}

// GrowGlobals extends the global table to at least n slots, used by the
// REPL when a later expression references a global index introduced by
// a just-compiled definition.
func (v *VM) GrowGlobals(n int) {
	for len(v.globals) < n {
		v.globals = append(v.globals, Value{})
	}
}

// RunEntry executes the module's designated entry function and returns
// its final stack value.
func (v *VM) RunEntry() (Value, error) {
	if v.module.EntryFunction == nil {
		return Value{}, &RuntimeError{Message: "module has no entry function"}
	}
	return v.RunFunction(v.module.EntryFunction, nil)
}

// RunFunction executes fn with the given arguments and returns its
// result (the value OpReturn/OpHalt left on the stack).
func (v *VM) RunFunction(fn *ir.Function, args []Value) (Value, error) {
	chunk := fn.Chunk()
	locals := make([]Value, chunk.NumLocals)
	copy(locals, args)

	base := len(v.stack)
	ip := 0
	for ip < len(chunk.Code) {
		inst := chunk.Code[ip]
		op := inst.OpCode()
		ip++

		switch op {
		case ir.OpLoadConstI:
			v.push(IntValue(chunk.IntConstants[inst.B()]))
		case ir.OpLoadConstF:
			v.push(FloatValue(chunk.FloatConstants[inst.B()]))
		case ir.OpLoadConstChar:
			v.push(CharValue(inst.SignedA()))
		case ir.OpLoadLocal:
			v.push(locals[inst.B()])
		case ir.OpStoreLocal:
			locals[inst.B()] = v.pop()
		case ir.OpLoadGlobal:
			v.push(v.Global(int(inst.B())))
		case ir.OpStoreGlobal:
			v.SetGlobal(int(inst.B()), v.pop())

		case ir.OpAddI, ir.OpSubI, ir.OpMulI, ir.OpDivI:
			b := v.pop().I
			a := v.pop().I
			result, err := intArith(op, a, b)
			if err != nil {
				return Value{}, err
			}
			v.push(IntValue(result))
		case ir.OpNegI:
			a := v.pop().I
			v.push(IntValue(-a))

		case ir.OpAddF, ir.OpSubF, ir.OpMulF, ir.OpDivF:
			b := v.pop().F
			a := v.pop().F
			v.push(FloatValue(floatArith(op, a, b)))
		case ir.OpNegF:
			a := v.pop().F
			v.push(FloatValue(-a))

		case ir.OpI64ToF64:
			a := v.pop().I
			v.push(FloatValue(float64(a)))
		case ir.OpF64ToI64:
			a := v.pop().F
			v.push(IntValue(int64(math.Trunc(a))))
		case ir.OpI8ToI64:
			a := v.pop().I
			v.push(IntValue(int64(int8(a))))
		case ir.OpI64ToI8:
			a := v.pop().I
			v.push(CharValue(int8(a)))

		case ir.OpCall:
			argc := int(inst.A())
			callee := v.module.Functions[inst.B()]
			callArgs := v.popN(argc)
			result, err := v.RunFunction(callee, callArgs)
			if err != nil {
				return Value{}, err
			}
			v.push(result)

		case ir.OpCallExternal:
			argc := int(inst.A())
			ext := v.module.Externals[inst.B()]
			callArgs := v.popN(argc)
			fn, ok := v.externals[ext.Name]
			if !ok {
				return Value{}, &RuntimeError{Message: fmt.Sprintf("external %q is not registered", ext.Name)}
			}
			result, err := fn(v, callArgs)
			if err != nil {
				return Value{}, err
			}
			v.push(result)

		case ir.OpPop:
			v.pop()

		case ir.OpReturn, ir.OpHalt:
			result := v.pop()
			v.stack = v.stack[:base]
			return result, nil

		default:
			return Value{}, &RuntimeError{Message: fmt.Sprintf("unimplemented opcode %v", op)}
		}
	}

	if len(v.stack) > base {
		result := v.pop()
		v.stack = v.stack[:base]
		return result, nil
	}
	return Value{}, nil
}

func (v *VM) push(val Value) { v.stack = append(v.stack, val) }

func (v *VM) pop() Value {
	n := len(v.stack) - 1
	val := v.stack[n]
	v.stack = v.stack[:n]
	return val
}

func (v *VM) popN(n int) []Value {
	if n == 0 {
		return nil
	}
	start := len(v.stack) - n
	args := make([]Value, n)
	copy(args, v.stack[start:])
	v.stack = v.stack[:start]
	return args
}

func intArith(op ir.OpCode, a, b int64) (int64, error) {
	switch op {
	case ir.OpAddI:
		return a + b, nil
	case ir.OpSubI:
		return a - b, nil
	case ir.OpMulI:
		return a * b, nil
	case ir.OpDivI:
		if b == 0 {
			return 0, &RuntimeError{Message: "division by zero"}
		}
		return a / b, nil
	}
	panic("vm: unreachable int op")
}

func floatArith(op ir.OpCode, a, b float64) float64 {
	switch op {
	case ir.OpAddF:
		return a + b
	case ir.OpSubF:
		return a - b
	case ir.OpMulF:
		return a * b
	case ir.OpDivF:
		return a / b
	}
	panic("vm: unreachable float op")
}
