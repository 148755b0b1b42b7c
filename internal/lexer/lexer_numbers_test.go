package lexer

import (
	"testing"

	"github.com/monadlang/monad/internal/token"
)

func TestLexerNumberLiterals(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"123", "123"},
		{"-5", "-5"},
		{"3.14", "3.14"},
		{"0xFF", "0xFF"},
		{"0XFF", "0XFF"},
		{"0b1010", "0b1010"},
		{"0o17", "0o17"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.NUMBER {
			t.Fatalf("%q: expected NUMBER, got %s", tt.input, tok.Type)
		}
		if tok.Literal != tt.literal {
			t.Fatalf("%q: expected literal %q, got %q", tt.input, tt.literal, tok.Literal)
		}
	}
}

func TestLexerNegativeRequiresDigit(t *testing.T) {
	l := New("- 5")
	tok := l.NextToken()
	if tok.Type != token.SYMBOL || tok.Literal != "-" {
		t.Fatalf("expected SYMBOL(-), got %s(%s)", tok.Type, tok.Literal)
	}
}

func TestLexerDoubleColonIsSingleSymbol(t *testing.T) {
	l := New("::")
	tok := l.NextToken()
	if tok.Type != token.SYMBOL || tok.Literal != "::" {
		t.Fatalf("expected SYMBOL(::), got %s(%s)", tok.Type, tok.Literal)
	}
}
