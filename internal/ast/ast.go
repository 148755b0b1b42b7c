// Package ast defines Monad's tagged abstract syntax tree.
//
// Every node carries Line/Column/EndColumn describing the range
// [Column, EndColumn) on Line. Ranges exist purely for diagnostics;
// semantics never depend on them.
package ast

import (
	"bytes"
	"strconv"

	"github.com/monadlang/monad/internal/token"
)

// Node is the interface implemented by every AST node.
type Node interface {
	// String renders the node for debugging and for the quoted-list show
	// form.
	String() string
	// Pos returns the node's starting position.
	Pos() token.Position
	// EndColumn returns one past the node's closing column on its
	// starting line; a list whose closer sits on a later line carries
	// the closer's own column instead (a best-effort range). For a node
	// that isn't bracketed (a bare atom), EndColumn is
	// Pos().Column + len(lexeme).
	EndColumn() int
}

// baseNode factors the shared Line/Column/EndColumn bookkeeping every
// concrete node embeds.
type baseNode struct {
	line, column, endColumn int
}

func (b baseNode) Pos() token.Position { return token.Position{Line: b.line, Column: b.column} }
func (b baseNode) EndColumn() int      { return b.endColumn }

// Number is an integer or floating-point literal.
//
// Literal preserves the exact source lexeme (when the node came from a
// NUMBER token) to drive base-preserving type inference;
// it is empty for a Number constructed without a source lexeme.
type Number struct {
	baseNode
	Literal string
	Value   float64
}

func (n *Number) String() string {
	if n.Literal != "" {
		return n.Literal
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Symbol is a bare identifier reference.
type Symbol struct {
	baseNode
	Name string
}

func (s *Symbol) String() string { return s.Name }

// String is a string literal. Value holds the raw, un-decoded lexeme
// content between the quotes.
type String struct {
	baseNode
	Value string
}

func (s *String) String() string { return `"` + s.Value + `"` }

// Char is a single 8-bit character literal.
type Char struct {
	baseNode
	Value byte
}

func (c *Char) String() string { return "'" + string(rune(c.Value)) + "'" }

// List is an ordered S-expression: (item item ...) or [item item ...].
// Bracketed is true when the list was written with '[' ']' rather than
// '(' ')'.
type List struct {
	baseNode
	Items     []Node
	Bracketed bool
}

func (l *List) String() string {
	open, close := "(", ")"
	if l.Bracketed {
		open, close = "[", "]"
	}
	var sb bytes.Buffer
	sb.WriteString(open)
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(item.String())
	}
	sb.WriteString(close)
	return sb.String()
}

// Param is one entry of a lambda's parameter list: a name with an
// optional declared type name (absent type names default to Float at
// codegen time).
type Param struct {
	Name     string
	TypeName string // "" if absent
}

// Lambda is a `(lambda <sig> <doc?> <body>)` node, produced either
// directly or via the `(define (name sig) doc? body)` desugaring.
type Lambda struct {
	baseNode
	ReturnType string // "" if absent (polymorphic/unknown)
	Docstring  string // "" if absent
	Params     []Param
	Body       Node
}

func (lm *Lambda) String() string {
	var sb bytes.Buffer
	sb.WriteString("(lambda (")
	for i, p := range lm.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		if p.TypeName != "" {
			sb.WriteString("[" + p.Name + " :: " + p.TypeName + "]")
		} else {
			sb.WriteString(p.Name)
		}
	}
	sb.WriteString(")")
	if lm.ReturnType != "" {
		sb.WriteString(" -> " + lm.ReturnType)
	}
	sb.WriteString(" " + lm.Body.String() + ")")
	return sb.String()
}

// Program is the root node: an ordered sequence of top-level expressions.
type Program struct {
	Exprs []Node
}

func (p *Program) String() string {
	var sb bytes.Buffer
	for i, e := range p.Exprs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}

// --- constructors (keep Pos/EndColumn bookkeeping in one place) ---

// NewNumber constructs a Number node at the given range.
func NewNumber(line, column, endColumn int, literal string, value float64) *Number {
	return &Number{baseNode: baseNode{line, column, endColumn}, Literal: literal, Value: value}
}

// NewSymbol constructs a Symbol node at the given range.
func NewSymbol(line, column, endColumn int, name string) *Symbol {
	return &Symbol{baseNode: baseNode{line, column, endColumn}, Name: name}
}

// NewString constructs a String node at the given range.
func NewString(line, column, endColumn int, value string) *String {
	return &String{baseNode: baseNode{line, column, endColumn}, Value: value}
}

// NewChar constructs a Char node at the given range.
func NewChar(line, column, endColumn int, value byte) *Char {
	return &Char{baseNode: baseNode{line, column, endColumn}, Value: value}
}

// NewList constructs a List node at the given range.
func NewList(line, column, endColumn int, items []Node, bracketed bool) *List {
	return &List{baseNode: baseNode{line, column, endColumn}, Items: items, Bracketed: bracketed}
}

// NewLambda constructs a Lambda node at the given range.
func NewLambda(line, column, endColumn int, params []Param, returnType, doc string, body Node) *Lambda {
	return &Lambda{
		baseNode:   baseNode{line, column, endColumn},
		Params:     params,
		ReturnType: returnType,
		Docstring:  doc,
		Body:       body,
	}
}
