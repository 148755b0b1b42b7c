package lexer

import (
	"testing"

	"github.com/monadlang/monad/internal/token"
)

func TestLexerStringEscapesPreservedVerbatim(t *testing.T) {
	// String escapes are kept verbatim, not decoded.
	l := New(`"hello\nworld"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	want := `hello\nworld`
	if tok.Literal != want {
		t.Fatalf("expected literal %q, got %q", want, tok.Literal)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexical error for unterminated string")
	}
}

func TestLexerCharLiteral(t *testing.T) {
	l := New(`'a'`)
	tok := l.NextToken()
	if tok.Type != token.CHAR || tok.Literal != "a" {
		t.Fatalf("expected CHAR(a), got %s(%s)", tok.Type, tok.Literal)
	}
}

func TestLexerCharEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`'\n'`, "\n"},
		{`'\t'`, "\t"},
		{`'\\'`, "\\"},
		{`'\''`, "'"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.CHAR {
			t.Fatalf("%q: expected CHAR, got %s", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.input, tt.want, tok.Literal)
		}
	}
}

func TestLexerBareQuoteIsQuoteToken(t *testing.T) {
	l := New(`'x`)
	tok := l.NextToken()
	if tok.Type != token.QUOTE {
		t.Fatalf("expected QUOTE, got %s", tok.Type)
	}
}
