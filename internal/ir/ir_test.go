package ir

import (
	"bytes"
	"testing"
)

func buildAddModule() *Module {
	b := NewBuilder("test")
	fn := b.CreateFunction("main", nil, KindI64)
	b.SetInsertPoint(fn)
	lhs := b.ConstInt(2)
	rhs := b.ConstInt(3)
	sum := b.CreateBinOp(OpAdd, KindI64, lhs, rhs)
	b.CreateRet(sum)
	b.FinishFunction(fn)
	b.Module().EntryFunction = fn
	return b.Module()
}

func TestBuilderEmitsExpectedOpcodes(t *testing.T) {
	module := buildAddModule()
	code := module.EntryFunction.Chunk().Code
	wantOps := []OpCode{OpLoadConstI, OpLoadConstI, OpAddI, OpReturn}
	if len(code) != len(wantOps) {
		t.Fatalf("got %d instructions, want %d", len(code), len(wantOps))
	}
	for i, want := range wantOps {
		if got := code[i].OpCode(); got != want {
			t.Errorf("instruction %d: got %v, want %v", i, got, want)
		}
	}
}

func TestDisassembleAddModule(t *testing.T) {
	module := buildAddModule()
	var buf bytes.Buffer
	NewDisassembler(module, &buf).Disassemble()
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("ADD_I")) {
		t.Errorf("disassembly missing ADD_I: %s", out)
	}
}

func TestSerializerRoundTrip(t *testing.T) {
	module := buildAddModule()
	var buf bytes.Buffer
	s := NewSerializer()
	if err := s.Write(&buf, module); err != nil {
		t.Fatalf("Write: %v", err)
	}
	decoded, err := s.Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if decoded.Name != module.Name {
		t.Errorf("name mismatch: got %q, want %q", decoded.Name, module.Name)
	}
	if len(decoded.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(decoded.Functions))
	}
	if len(decoded.Functions[0].Chunk().Code) != 4 {
		t.Fatalf("got %d instructions, want 4", len(decoded.Functions[0].Chunk().Code))
	}
}

func TestCoerceAndCastOpcodes(t *testing.T) {
	b := NewBuilder("cast")
	fn := b.CreateFunction("main", nil, KindF64)
	b.SetInsertPoint(fn)
	i := b.ConstInt(7)
	f := b.CreateSIToFP(i)
	b.CreateRet(f)
	b.FinishFunction(fn)

	code := fn.Chunk().Code
	if code[1].OpCode() != OpI64ToF64 {
		t.Errorf("expected OpI64ToF64, got %v", code[1].OpCode())
	}
}
