package env

import (
	"bytes"
	"strings"
	"testing"

	"github.com/monadlang/monad/internal/types"
)

func TestInsertOverwrites(t *testing.T) {
	e := New()
	e.InsertVariable("x", types.Primitive(types.Int), 1)
	e.InsertVariable("x", types.Primitive(types.Float), 2)

	entry, ok := e.Lookup("x")
	if !ok {
		t.Fatal("x not found")
	}
	if entry.VarType.Kind != types.Float {
		t.Errorf("type = %v, want Float (the overwriting entry)", entry.VarType.Kind)
	}
	if entry.VarStorage != 2 {
		t.Errorf("storage = %v, want the overwriting entry's handle", entry.VarStorage)
	}
	if got := len(e.Names()); got != 1 {
		t.Errorf("names = %d, want 1 (overwrite must not duplicate)", got)
	}
}

func TestLookupMissing(t *testing.T) {
	e := New()
	if _, ok := e.Lookup("nope"); ok {
		t.Error("Lookup on an empty environment should report absence")
	}
}

func TestInsertedTypesAreCloned(t *testing.T) {
	e := New()
	original := types.Primitive(types.Int)
	e.InsertVariable("x", original, nil)

	original.Kind = types.Float

	entry, _ := e.Lookup("x")
	if entry.VarType.Kind != types.Int {
		t.Error("mutating the caller's type leaked into the stored entry")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	outer := New()
	outer.InsertVariable("x", types.Primitive(types.Int), nil)

	inner := outer.Clone()
	inner.InsertVariable("param", types.Primitive(types.Float), nil)
	inner.InsertVariable("x", types.Primitive(types.Char), nil)

	if _, ok := outer.Lookup("param"); ok {
		t.Error("insertion into the clone leaked into the original")
	}
	entry, _ := outer.Lookup("x")
	if entry.VarType.Kind != types.Int {
		t.Error("overwrite in the clone leaked into the original")
	}
}

func TestDumpFormats(t *testing.T) {
	e := New()
	e.InsertVariable("radius", types.Primitive(types.Float), nil)
	e.Insert("answer", Entry{
		Kind:      KindVariable,
		VarType:   types.Primitive(types.Int),
		Docstring: "the answer",
	})
	e.InsertBuiltin("+", 1, -1)
	e.InsertBuiltin("show", 1, 1)
	e.InsertFunction("add",
		[]FunctionParam{{Name: "a", Type: types.Primitive(types.Int)}, {Name: "b", Type: types.Primitive(types.Int)}},
		types.Primitive(types.Int), nil, "")

	var buf bytes.Buffer
	Dump(&buf, e)
	out := buf.String()

	for _, want := range []string{
		"[radius :: Float]",
		"[answer :: Int]  ; the answer",
		"[+ :: Fn (_ . _)]",
		"[show :: Fn (_)]",
		"[add :: Fn (a b) -> Int]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestBuiltinSignatureShapes(t *testing.T) {
	tests := []struct {
		min, max int
		want     string
	}{
		{0, -1, "_"},
		{1, -1, "_ . _"},
		{2, 2, "_ _"},
		{1, 3, "_ #:optional _ _"},
	}
	for _, tt := range tests {
		if got := builtinSignature(tt.min, tt.max); got != tt.want {
			t.Errorf("builtinSignature(%d, %d) = %q, want %q", tt.min, tt.max, got, tt.want)
		}
	}
}
