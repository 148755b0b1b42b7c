package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/monadlang/monad/internal/codegen"
	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/lexer"
	"github.com/monadlang/monad/internal/parser"
	"github.com/monadlang/monad/internal/vm"
)

func compileModule(t *testing.T, src string) *ir.Module {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	builder := ir.NewBuilder("test")
	ctx := codegen.New(builder, codegen.NewBaseEnvironment(), codegen.ModeBatch)
	ctx.Echo = nil
	if err := codegen.CompileProgram(ctx, prog); err != nil {
		t.Fatalf("compile: %v", err)
	}
	return builder.Module()
}

func TestWriteIRProducesDisassembly(t *testing.T) {
	module := compileModule(t, "(+ 1 2)")
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ll")
	if err := WriteIR(path, module); err != nil {
		t.Fatalf("WriteIR: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty disassembly output")
	}
}

func TestWriteAssemblyMirrorsIR(t *testing.T) {
	module := compileModule(t, "(+ 1 2)")
	dir := t.TempDir()
	path := filepath.Join(dir, "out.s")
	if err := WriteAssembly(path, module); err != nil {
		t.Fatalf("WriteAssembly: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty assembly output")
	}
}

func TestWriteBitcodeRoundTrips(t *testing.T) {
	module := compileModule(t, "(show (+ 1 2))")
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bc")
	if err := WriteBitcode(path, module); err != nil {
		t.Fatalf("WriteBitcode: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	readBack, err := ir.NewSerializer().Read(f)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	var out bytes.Buffer
	machine := vm.New(readBack, &out)
	codegen.RegisterRuntime(machine)
	if _, err := machine.RunEntry(); err != nil {
		t.Fatalf("run deserialized module: %v", err)
	}
	if got := out.String(); got != "3\n" {
		t.Errorf("got %q, want %q", got, "3\n")
	}
}

func TestLinkWritesRunnableLauncher(t *testing.T) {
	module := compileModule(t, "(+ 1 2)")
	dir := t.TempDir()
	path := filepath.Join(dir, "a.out")
	if _, err := Link(path, module); err != nil {
		t.Fatalf("Link: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat launcher: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Error("launcher should be executable")
	}
	if _, err := os.Stat(path + ".bc"); err != nil {
		t.Errorf("expected sibling bitcode file: %v", err)
	}
}

func TestExitCodeTruncatesToByte(t *testing.T) {
	if got := ExitCode(vm.IntValue(3)); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if got := ExitCode(vm.IntValue(257)); got != 1 {
		t.Errorf("got %d, want 1 (257 & 0xFF)", got)
	}
	if got := ExitCode(vm.FloatValue(2.9)); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}
