package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/monadlang/monad/internal/ir"
	"github.com/monadlang/monad/internal/lexer"
	"github.com/monadlang/monad/internal/parser"
	"github.com/monadlang/monad/internal/vm"
)

func compileSource(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	builder := ir.NewBuilder("test")
	ctx := New(builder, NewBaseEnvironment(), ModeBatch)
	ctx.Source = src
	ctx.Echo = nil
	if err := CompileProgram(ctx, prog); err != nil {
		t.Fatalf("compile: %v", err)
	}

	var out bytes.Buffer
	machine := vm.New(builder.Module(), &out)
	RegisterRuntime(machine)
	if _, err := machine.RunEntry(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestShowFloatLiteral(t *testing.T) {
	got := compileSource(t, "(show 3.5)")
	if got != "3.5\n" {
		t.Errorf("got %q, want %q", got, "3.5\n")
	}
}

func TestShowHexPreservesProvenance(t *testing.T) {
	got := compileSource(t, "(show 0xFF)")
	if got != "0xFF\n" {
		t.Errorf("got %q, want %q", got, "0xFF\n")
	}
}

func TestShowHexSymbolPreservesProvenance(t *testing.T) {
	got := compileSource(t, "(define x 0xFF)\n(show x)")
	if !strings.HasSuffix(got, "0xFF\n") {
		t.Errorf("got %q, want suffix %q", got, "0xFF\n")
	}
}

func TestShowBinary(t *testing.T) {
	got := compileSource(t, "(show 0b1010)")
	if got != "0b1010\n" {
		t.Errorf("got %q, want %q", got, "0b1010\n")
	}
}

func TestShowOctal(t *testing.T) {
	got := compileSource(t, "(show 0o17)")
	if got != "0o17\n" {
		t.Errorf("got %q, want %q", got, "0o17\n")
	}
}

func TestArithmeticFold(t *testing.T) {
	got := compileSource(t, "(show (+ 1 2 3))")
	if got != "6\n" {
		t.Errorf("got %q, want %q", got, "6\n")
	}
}

func TestArithmeticFloatPromotion(t *testing.T) {
	got := compileSource(t, "(show (+ 1 2.5))")
	if got != "3.5\n" {
		t.Errorf("got %q, want %q", got, "3.5\n")
	}
}

func TestArithmeticAmbiguousMixIsError(t *testing.T) {
	l := lexer.New("(+ 0xFF 0b11)")
	p := parser.New(l)
	prog := p.ParseProgram()
	builder := ir.NewBuilder("test")
	ctx := New(builder, NewBaseEnvironment(), ModeBatch)
	ctx.Echo = nil
	if err := CompileProgram(ctx, prog); err == nil {
		t.Fatal("expected ambiguous result type error, got nil")
	}
}

func TestUnaryNegate(t *testing.T) {
	got := compileSource(t, "(show (- 5))")
	if got != "-5\n" {
		t.Errorf("got %q, want %q", got, "-5\n")
	}
}

func TestUnaryReciprocal(t *testing.T) {
	got := compileSource(t, "(show (/ 4))")
	if got != "0.25\n" {
		t.Errorf("got %q, want %q", got, "0.25\n")
	}
}

func TestQuotedShowSingleLine(t *testing.T) {
	got := compileSource(t, "(show '(+ 1 2))")
	if got != "(+ 1 2)\n" {
		t.Errorf("got %q, want %q", got, "(+ 1 2)\n")
	}
}

func TestFunctionDefineAndCall(t *testing.T) {
	got := compileSource(t, "(define (add [a :: Int] [b :: Int] -> Int) (+ a b))\n(show (add 2 3))")
	if got != "5\n" {
		t.Errorf("got %q, want %q", got, "5\n")
	}
}

func TestAnnotatedDefineCoercesFloatToInt(t *testing.T) {
	got := compileSource(t, "(define [x :: Int] 3.9)\n(show x)")
	if got != "3\n" {
		t.Errorf("got %q, want %q", got, "3\n")
	}
}

func TestStringLiteralShow(t *testing.T) {
	got := compileSource(t, `(show "hello")`)
	if got != "hello\n" {
		t.Errorf("got %q, want %q", got, "hello\n")
	}
}
