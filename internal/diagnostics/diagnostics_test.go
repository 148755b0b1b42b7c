package diagnostics

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/monadlang/monad/internal/token"
)

func TestFormatHeader(t *testing.T) {
	d := New(CategoryReference, token.Position{Line: 3, Column: 7}, "unbound variable: y")
	d.File = "prog.mon"
	out := d.Format(false)
	if !strings.HasPrefix(out, "prog.mon:3:7: error: unbound variable: y") {
		t.Errorf("unexpected header:\n%s", out)
	}
}

func TestFormatDefaultsFilename(t *testing.T) {
	d := New(CategorySyntax, token.Position{Line: 1, Column: 1}, "boom")
	if !strings.HasPrefix(d.Format(false), "<input>:1:1:") {
		t.Errorf("missing <input> fallback:\n%s", d.Format(false))
	}
}

func TestRangedUnderline(t *testing.T) {
	d := NewRange(CategoryType, token.Position{Line: 1, Column: 5}, 9, "ambiguous result type")
	d.Source = "(+ 0xFF 0b10)"
	out := d.Format(false)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	underline := lines[2]
	caretAt := strings.Index(underline, "^")
	// The "1  | " gutter is 5 characters wide, so column 5 lands at index 9.
	if caretAt != 9 {
		t.Errorf("caret at index %d, want 9:\n%s", caretAt, out)
	}
	if !strings.HasSuffix(underline, "^~~~") {
		t.Errorf("underline = %q, want it to end with ^~~~ for range [5, 9)", underline)
	}
}

func TestUnderlineAccountsForWideRunes(t *testing.T) {
	// Column 6 is the '2'; the wide rune at column 4 renders as two
	// terminal cells, so the caret needs one extra space of padding.
	d := New(CategoryType, token.Position{Line: 1, Column: 6}, "non-numeric operand to arithmetic: Unknown")
	d.Source = "(+ 名 2)"
	out := d.Format(false)

	lines := strings.Split(out, "\n")
	underline := lines[2]
	caretAt := strings.Index(underline, "^")
	// 5 gutter cells + display width 6 for the five runes before column 6
	// (four narrow + one wide).
	if caretAt != 11 {
		t.Errorf("caret at index %d, want 11:\n%s", caretAt, out)
	}
}

func TestSingleCaretWithoutRange(t *testing.T) {
	d := New(CategoryLexical, token.Position{Line: 1, Column: 2}, "unexpected character")
	d.Source = "(@)"
	out := d.Format(false)
	if strings.Contains(out, "~") {
		t.Errorf("no-range diagnostic should not print tildes:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret:\n%s", out)
	}
}

func TestFormatSnapshots(t *testing.T) {
	ranged := NewRange(CategoryType, token.Position{Line: 2, Column: 1}, 14, "cannot mix Hex and Bin in arithmetic")
	ranged.File = "mix.mon"
	ranged.Source = "(define a 1)\n(+ 0xFF 0b10)"
	snaps.MatchSnapshot(t, ranged.Format(false))

	plain := New(CategoryReference, token.Position{Line: 1, Column: 7}, "unbound variable: y")
	plain.File = "ref.mon"
	plain.Source = "(show y)"
	snaps.MatchSnapshot(t, plain.Format(false))
}

func TestFormatAllSeparatesDiagnostics(t *testing.T) {
	a := New(CategoryLexical, token.Position{Line: 1, Column: 1}, "first")
	b := New(CategorySyntax, token.Position{Line: 2, Column: 1}, "second")
	out := FormatAll([]*Diagnostic{a, b}, false)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("missing diagnostics:\n%s", out)
	}
}
