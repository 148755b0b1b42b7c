package repl

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestDefinePersistsAcrossLines(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	if err := s.Eval("(define x 0xFF)"); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := s.Eval("(show x)"); err != nil {
		t.Fatalf("show: %v", err)
	}

	got := out.String()
	if got != "x :: Hex\n0xFF\n" {
		t.Errorf("got %q, want %q", got, "x :: Hex\n0xFF\n")
	}
}

func TestBareExpressionAutoPrints(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	if err := s.Eval("(+ 1 2)"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got := out.String(); got != "3\n" {
		t.Errorf("got %q, want %q", got, "3\n")
	}
}

func TestFunctionDefineEchoesSignature(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	if err := s.Eval("(define (add [a :: Int] [b :: Int] -> Int) (+ a b))"); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := s.Eval("(show (add 2 3))"); err != nil {
		t.Fatalf("show: %v", err)
	}
	got := out.String()
	if got != "add :: Fn (a b) -> Int\n5\n" {
		t.Errorf("got %q, want %q", got, "add :: Fn (a b) -> Int\n5\n")
	}
}

func TestUnboundVariableIsRecoverable(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	if err := s.Eval("(show y)"); err == nil {
		t.Fatal("expected an unbound-variable error")
	}
	if err := s.Eval("(define y 1)"); err != nil {
		t.Fatalf("session should still be usable after a recoverable error: %v", err)
	}
	if err := s.Eval("(show y)"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if got := out.String(); got != "y :: Int\n1\n" {
		t.Errorf("got %q, want %q", got, "y :: Int\n1\n")
	}
}

func TestSessionTranscript(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)

	lines := []string{
		"(define n 41)",
		"(+ n 1)",
		"(define x 0xFF)",
		"(show x)",
		"(define (double [v :: Int] -> Int) (* v 2))",
		"(double 21)",
		"(show '(+ 1 2))",
		`(show "hello")`,
	}
	for _, line := range lines {
		if err := s.Eval(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	snaps.MatchSnapshot(t, out.String())
}

func TestNamesIncludesDefinedBindings(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)
	if err := s.Eval("(define z 1)"); err != nil {
		t.Fatalf("define: %v", err)
	}
	found := false
	for _, n := range s.Names() {
		if n == "z" {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v, want it to contain %q", s.Names(), "z")
	}
}
