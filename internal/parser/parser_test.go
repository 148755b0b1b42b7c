package parser

import (
	"testing"

	"github.com/monadlang/monad/internal/ast"
	"github.com/monadlang/monad/internal/lexer"
)

func parseOne(t *testing.T, src string) ast.Node {
	t.Helper()
	p := New(lexer.New(src))
	node := p.ParseExpr()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	return node
}

func TestQuoteDesugarsToQuoteList(t *testing.T) {
	quoted := parseOne(t, "'x")
	explicit := parseOne(t, "(quote x)")

	qList, ok := quoted.(*ast.List)
	if !ok {
		t.Fatalf("'x parsed to %T, want *ast.List", quoted)
	}
	eList := explicit.(*ast.List)
	if qList.String() != eList.String() {
		t.Errorf("'x parsed as %s, (quote x) as %s", qList.String(), eList.String())
	}
	if qList.Pos().Column != 1 {
		t.Errorf("quoted node start column = %d, want the quote's own column 1", qList.Pos().Column)
	}
}

func TestShortFormDefineDesugarsToLambda(t *testing.T) {
	node := parseOne(t, "(define (add [a :: Int] [b :: Int] -> Int) (+ a b))")

	list, ok := node.(*ast.List)
	if !ok || len(list.Items) != 3 {
		t.Fatalf("expected 3-item (define name lambda) list, got %s", node.String())
	}
	if head := list.Items[0].(*ast.Symbol); head.Name != "define" {
		t.Errorf("head = %q, want define", head.Name)
	}
	if name := list.Items[1].(*ast.Symbol); name.Name != "add" {
		t.Errorf("name = %q, want add", name.Name)
	}
	lambda, ok := list.Items[2].(*ast.Lambda)
	if !ok {
		t.Fatalf("value = %T, want *ast.Lambda", list.Items[2])
	}
	if len(lambda.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(lambda.Params))
	}
	if lambda.Params[0].Name != "a" || lambda.Params[0].TypeName != "Int" {
		t.Errorf("param 0 = %+v, want a :: Int", lambda.Params[0])
	}
	if lambda.ReturnType != "Int" {
		t.Errorf("return type = %q, want Int", lambda.ReturnType)
	}
}

func TestLambdaFormWithDocstring(t *testing.T) {
	node := parseOne(t, `(lambda ([x :: Float]) "squares x" (* x x))`)
	lambda, ok := node.(*ast.Lambda)
	if !ok {
		t.Fatalf("parsed to %T, want *ast.Lambda", node)
	}
	if lambda.Docstring != "squares x" {
		t.Errorf("docstring = %q, want %q", lambda.Docstring, "squares x")
	}
	if lambda.ReturnType != "" {
		t.Errorf("return type = %q, want absent", lambda.ReturnType)
	}
}

func TestSignatureReturnTypeWithoutArrow(t *testing.T) {
	node := parseOne(t, "(define (f [x :: Int] Int) x)")
	lambda := node.(*ast.List).Items[2].(*ast.Lambda)
	if lambda.ReturnType != "Int" {
		t.Errorf("return type = %q, want Int (bare trailing symbol)", lambda.ReturnType)
	}
}

func TestUnexpectedTokenInSignatureIsError(t *testing.T) {
	p := New(lexer.New(`(lambda ([x :: Int] "doc-inside-sig") x)`))
	p.ParseExpr()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error for a string inside the signature")
	}
}

func TestSingleLineListRange(t *testing.T) {
	node := parseOne(t, "(+ 1 2)")
	list := node.(*ast.List)
	if list.Pos().Column != 1 {
		t.Errorf("start column = %d, want 1", list.Pos().Column)
	}
	if list.EndColumn() != 8 {
		t.Errorf("end column = %d, want 8 (one past the closer)", list.EndColumn())
	}
}

func TestMultilineListRangeIsBestEffort(t *testing.T) {
	// The closer sits at column 3 of its own line; EndColumn carries that
	// raw column, which makes underlines for multiline lists imprecise.
	node := parseOne(t, "(+ 1\n 2)")
	list := node.(*ast.List)
	if list.EndColumn() != 3 {
		t.Errorf("end column = %d, want 3 (the closer's own column)", list.EndColumn())
	}
}

func TestBracketListPassesThrough(t *testing.T) {
	node := parseOne(t, "[x :: Int]")
	list, ok := node.(*ast.List)
	if !ok || !list.Bracketed {
		t.Fatalf("parsed to %s, want a bracketed list", node.String())
	}
	if len(list.Items) != 3 {
		t.Errorf("items = %d, want 3", len(list.Items))
	}
}

func TestUnclosedListIsError(t *testing.T) {
	p := New(lexer.New("(+ 1 2"))
	p.ParseExpr()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an unclosed-delimiter error")
	}
}

func TestNumberLiteralValues(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"123", 123},
		{"-5", -5},
		{"3.14", 3.14},
		{"0xFF", 255},
		{"0b1010", 10},
		{"0o17", 15},
	}
	for _, tt := range tests {
		node := parseOne(t, tt.src)
		num, ok := node.(*ast.Number)
		if !ok {
			t.Fatalf("%q parsed to %T, want *ast.Number", tt.src, node)
		}
		if num.Value != tt.want {
			t.Errorf("%q value = %g, want %g", tt.src, num.Value, tt.want)
		}
		if num.Literal != tt.src {
			t.Errorf("%q literal = %q, want the lexeme preserved", tt.src, num.Literal)
		}
	}
}

func TestProgramParsesExpressionsInOrder(t *testing.T) {
	p := New(lexer.New("(define x 1)\n(show x)"))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if len(prog.Exprs) != 2 {
		t.Fatalf("exprs = %d, want 2", len(prog.Exprs))
	}
}
