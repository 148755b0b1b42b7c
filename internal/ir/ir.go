// Package ir is Monad's platform code-generation intermediate
// representation: an abstract IRBuilder facade over a hand-rolled,
// bytecode-shaped concrete representation.
//
// The concrete backend is an opcode-per-instruction stream, a
// per-function constant pool, line tables for diagnostics, a
// disassembler for textual IR (--emit-ir), and a binary Serializer for
// bitcode (--emit-bc), hidden behind an interface general enough that a
// real SSA/LLVM-style backend could implement it instead.
package ir

import "fmt"

// ValueKind is the backend-level type of an IR value: the codegen layer
// maps Monad's types.Kind down to one of these before emitting
// instructions.
type ValueKind byte

const (
	KindI64 ValueKind = iota // all four integer variants (Int/Hex/Bin/Oct) share this backend type
	KindF64
	KindI8 // Char
	KindPtr
	KindVoid
)

func (k ValueKind) String() string {
	switch k {
	case KindI64:
		return "i64"
	case KindF64:
		return "f64"
	case KindI8:
		return "i8"
	case KindPtr:
		return "ptr"
	case KindVoid:
		return "void"
	}
	return "?"
}

// Value is an opaque handle to an IR-level value: a constant, a loaded
// local/global, or the result of an instruction. Concretely it carries
// the backend kind and, for CreateAlloca and Param results, the local
// slot index; callers should treat it as opaque.
type Value struct {
	kind ValueKind
	id   int
}

// Kind reports the backend type of v.
func (v Value) Kind() ValueKind { return v.kind }

// Global is a handle to a module-level global variable (used for REPL
// persistent bindings and for string constants).
type Global struct {
	Name string
	Kind ValueKind
	id   int
}

// Function is a handle to a declared or defined IR function.
type Function struct {
	Name       string
	ParamKinds []ValueKind
	ReturnKind ValueKind
	chunk      *Chunk
}

// Chunk returns the function's instruction chunk (nil for external
// declarations such as print_int).
func (f *Function) Chunk() *Chunk { return f.chunk }

// BinOp identifies a binary arithmetic/comparison opcode family.
type BinOp byte

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpNeg // unary, lhs only
)

func (op BinOp) String() string {
	return [...]string{"add", "sub", "mul", "div", "neg"}[op]
}

// IRBuilder is the facade codegen targets: it can create values, blocks,
// globals, functions and calls without codegen knowing anything about
// the concrete backend. A CPU-targeting SSA backend (LLVM-shaped) and
// this package's hand-rolled bytecode backend are both valid
// implementations of this interface.
type IRBuilder interface {
	// --- module-level declarations ---

	DeclareExternal(name string, paramKinds []ValueKind, returnKind ValueKind, variadic bool) *Function
	CreateGlobalString(name, value string) Global
	CreateGlobalVar(name string, kind ValueKind) Global
	CreateFunction(name string, paramKinds []ValueKind, returnKind ValueKind) *Function

	// --- insertion point ---

	SetInsertPoint(fn *Function)

	// --- constants ---

	ConstInt(v int64) Value
	ConstFloat(v float64) Value
	ConstChar(v int8) Value

	// --- memory ---

	CreateAlloca(kind ValueKind, name string) Value
	CreateLoad(ptr Value) Value
	CreateStore(val, ptr Value)
	CreateLoadGlobal(g Global) Value
	CreateStoreGlobal(val Value, g Global)
	CreateGlobalAddr(g Global) Value

	// --- casts ---

	CreateSIToFP(v Value) Value     // int64 -> float64
	CreateFPToSI(v Value) Value     // float64 -> int64, truncating toward zero
	CreateSExt8To64(v Value) Value  // int8 -> int64, sign-extending
	CreateTrunc64To8(v Value) Value // int64 -> int8, truncating

	// --- arithmetic ---

	CreateBinOp(op BinOp, kind ValueKind, lhs, rhs Value) Value
	CreateUnaryOp(op BinOp, kind ValueKind, v Value) Value

	// --- control flow (present for facade completeness; Monad's
	// grammar never needs branches/compares, so no codegen path
	// exercises these — see DESIGN.md) ---

	CreateCondBr(cond Value, thenLabel, elseLabel string)
	CreateBr(label string)
	CreateCmp(op string, lhs, rhs Value) Value

	// --- calls & returns ---

	CreateCall(fn *Function, args []Value) Value
	CreateCallVariadic(fn *Function, args []Value) Value
	CreateRet(v Value)
	CreateRetVoid()

	// --- finishing a function ---

	FinishFunction(fn *Function) error
}

var _ IRBuilder = (*Builder)(nil)

func unsupported(op string) error { return fmt.Errorf("ir: %s is not supported by this backend", op) }
