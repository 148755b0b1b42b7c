package ir

import "fmt"

// Builder is the concrete, hand-rolled bytecode implementation of
// IRBuilder. Like a typical tree-walking bytecode compiler, it has no
// SSA value graph: CreateBinOp and friends simply emit instructions in
// call order into the current function's Chunk, relying on the
// operand stack (not a returned handle) to carry values between calls.
// The Value a method returns is therefore just a type tag the caller
// uses to decide what cast or opcode comes next — it does not
// reference any particular stack slot.
type Builder struct {
	module  *Module
	line    int
	current *Function
	chunk   *Chunk
}

// NewBuilder creates an empty module-level builder.
func NewBuilder(moduleName string) *Builder {
	return &Builder{module: newModule(moduleName)}
}

// Module returns the module being built. Call this after FinishFunction
// has been called for every function.
func (b *Builder) Module() *Module { return b.module }

// SetLine sets the source line attributed to instructions emitted by
// subsequent calls, until changed again.
func (b *Builder) SetLine(line int) { b.line = line }

func (b *Builder) DeclareExternal(name string, paramKinds []ValueKind, returnKind ValueKind, variadic bool) *Function {
	ext := &External{Name: name, ParamKinds: paramKinds, ReturnKind: returnKind, Variadic: variadic}
	b.module.Externals = append(b.module.Externals, ext)
	return &Function{Name: name, ParamKinds: paramKinds, ReturnKind: returnKind}
}

func (b *Builder) CreateGlobalString(name, value string) Global {
	idx := len(b.module.Globals)
	b.module.Globals = append(b.module.Globals, GlobalVar{Name: name, Kind: KindPtr})
	b.module.GlobalStrings[idx] = value
	return Global{Name: name, Kind: KindPtr, id: idx}
}

func (b *Builder) CreateGlobalVar(name string, kind ValueKind) Global {
	idx := len(b.module.Globals)
	b.module.Globals = append(b.module.Globals, GlobalVar{Name: name, Kind: kind})
	return Global{Name: name, Kind: kind, id: idx}
}

func (b *Builder) CreateFunction(name string, paramKinds []ValueKind, returnKind ValueKind) *Function {
	chunk := newChunk(name)
	chunk.ParamCount = len(paramKinds)
	chunk.NumLocals = len(paramKinds)
	fn := &Function{Name: name, ParamKinds: paramKinds, ReturnKind: returnKind, chunk: chunk}
	b.module.Functions = append(b.module.Functions, fn)
	return fn
}

func (b *Builder) SetInsertPoint(fn *Function) {
	b.current = fn
	b.chunk = fn.chunk
}

func (b *Builder) emit(inst Instruction) int { return b.chunk.write(inst, b.line) }

func (b *Builder) ConstInt(v int64) Value {
	idx := b.chunk.addIntConstant(v)
	b.emit(MakeInstruction(OpLoadConstI, 0, uint16(idx)))
	return Value{kind: KindI64}
}

func (b *Builder) ConstFloat(v float64) Value {
	idx := b.chunk.addFloatConstant(v)
	b.emit(MakeInstruction(OpLoadConstF, 0, uint16(idx)))
	return Value{kind: KindF64}
}

func (b *Builder) ConstChar(v int8) Value {
	b.emit(MakeInstruction(OpLoadConstChar, byte(v), 0))
	return Value{kind: KindI8}
}

// CreateAlloca reserves the next local slot in the current function and
// returns a Value tagging it; unlike an SSA alloca this returns the slot
// index itself (not a pointer) since the stack-based backend addresses
// locals by slot number, not by address.
func (b *Builder) CreateAlloca(kind ValueKind, name string) Value {
	slot := b.chunk.NumLocals
	b.chunk.NumLocals++
	return Value{kind: kind, id: slot}
}

// Param returns a Value handle for parameter slot idx of the function
// currently positioned by SetInsertPoint. Parameters need no CreateAlloca:
// CreateFunction already reserves one local per parameter, so slot idx
// is live the moment the function starts executing.
func (b *Builder) Param(idx int) Value {
	return Value{kind: b.current.ParamKinds[idx], id: idx}
}

func (b *Builder) CreateLoad(ptr Value) Value {
	b.emit(MakeInstruction(OpLoadLocal, 0, uint16(ptr.id)))
	return Value{kind: ptr.kind}
}

func (b *Builder) CreateStore(val, ptr Value) {
	b.emit(MakeInstruction(OpStoreLocal, 0, uint16(ptr.id)))
}

func (b *Builder) CreateLoadGlobal(g Global) Value {
	b.emit(MakeInstruction(OpLoadGlobal, 0, uint16(g.id)))
	return Value{kind: g.Kind}
}

func (b *Builder) CreateStoreGlobal(val Value, g Global) {
	b.emit(MakeInstruction(OpStoreGlobal, 0, uint16(g.id)))
}

func (b *Builder) CreateGlobalAddr(g Global) Value {
	return Value{kind: KindPtr, id: g.id}
}

func (b *Builder) CreateSIToFP(v Value) Value {
	b.emit(MakeSimple(OpI64ToF64))
	return Value{kind: KindF64}
}

func (b *Builder) CreateFPToSI(v Value) Value {
	b.emit(MakeSimple(OpF64ToI64))
	return Value{kind: KindI64}
}

func (b *Builder) CreateSExt8To64(v Value) Value {
	b.emit(MakeSimple(OpI8ToI64))
	return Value{kind: KindI64}
}

func (b *Builder) CreateTrunc64To8(v Value) Value {
	b.emit(MakeSimple(OpI64ToI8))
	return Value{kind: KindI8}
}

func (b *Builder) CreateBinOp(op BinOp, kind ValueKind, lhs, rhs Value) Value {
	b.emit(MakeSimple(binOpcode(op, kind)))
	return Value{kind: kind}
}

func (b *Builder) CreateUnaryOp(op BinOp, kind ValueKind, v Value) Value {
	var code OpCode
	switch {
	case kind == KindI64 && op == OpNeg:
		code = OpNegI
	case kind == KindF64 && op == OpNeg:
		code = OpNegF
	default:
		panic(fmt.Sprintf("ir: unsupported unary op %v on %v", op, kind))
	}
	b.emit(MakeSimple(code))
	return Value{kind: kind}
}

func binOpcode(op BinOp, kind ValueKind) OpCode {
	isFloat := kind == KindF64
	switch op {
	case OpAdd:
		if isFloat {
			return OpAddF
		}
		return OpAddI
	case OpSub:
		if isFloat {
			return OpSubF
		}
		return OpSubI
	case OpMul:
		if isFloat {
			return OpMulF
		}
		return OpMulI
	case OpDiv:
		if isFloat {
			return OpDivF
		}
		return OpDivI
	}
	panic(fmt.Sprintf("ir: unsupported binary op %v", op))
}

func (b *Builder) CreateCondBr(cond Value, thenLabel, elseLabel string) {
	panic(unsupported("CreateCondBr"))
}

func (b *Builder) CreateBr(label string) { panic(unsupported("CreateBr")) }

func (b *Builder) CreateCmp(op string, lhs, rhs Value) Value { panic(unsupported("CreateCmp")) }

func (b *Builder) CreateCall(fn *Function, args []Value) Value {
	idx := b.functionIndex(fn)
	b.emit(MakeInstruction(OpCall, byte(len(args)), uint16(idx)))
	return Value{kind: fn.ReturnKind}
}

func (b *Builder) CreateCallVariadic(fn *Function, args []Value) Value {
	idx := b.externalIndex(fn.Name)
	b.emit(MakeInstruction(OpCallExternal, byte(len(args)), uint16(idx)))
	return Value{kind: fn.ReturnKind}
}

func (b *Builder) functionIndex(fn *Function) int {
	for i, f := range b.module.Functions {
		if f == fn {
			return i
		}
	}
	panic(fmt.Sprintf("ir: function %q not registered in this module", fn.Name))
}

func (b *Builder) externalIndex(name string) int {
	for i, e := range b.module.Externals {
		if e.Name == name {
			return i
		}
	}
	panic(fmt.Sprintf("ir: external %q not declared in this module", name))
}

func (b *Builder) CreateRet(v Value) { b.emit(MakeSimple(OpReturn)) }

func (b *Builder) CreateRetVoid() { b.emit(MakeSimple(OpReturn)) }

// CreatePop discards the current stack top; used by codegen between
// sequential top-level expressions whose values are not the program's
// final result.
func (b *Builder) CreatePop() { b.emit(MakeSimple(OpPop)) }

// CreateHalt stops the current function with whatever the stack top
// holds as its result. Codegen does not emit it: CompileProgram ends the
// entry function with CreateRet.
func (b *Builder) CreateHalt() { b.emit(MakeSimple(OpHalt)) }

func (b *Builder) FinishFunction(fn *Function) error {
	return nil
}

// DeleteFunction removes fn from the module if it is the most recently
// created function, undoing a failed REPL wrapper compilation. It is a
// no-op for any function that isn't the last one created.
func (b *Builder) DeleteFunction(fn *Function) {
	n := len(b.module.Functions)
	if n > 0 && b.module.Functions[n-1] == fn {
		b.module.Functions = b.module.Functions[:n-1]
	}
}
