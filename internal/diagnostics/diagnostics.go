// Package diagnostics formats Monad compiler errors with source context,
// line/column information, and a caret/tilde underline. Beyond a plain
// single-caret error, it supports ranged underlines since
// every AST node carries a [Column, EndColumn) range.
package diagnostics

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/monadlang/monad/internal/token"
)

// Category classifies a Diagnostic by compilation phase.
type Category string

const (
	CategoryLexical   Category = "Lexical"
	CategorySyntax    Category = "Syntax"
	CategoryReference Category = "Reference"
	CategoryArity     Category = "Arity"
	CategoryType      Category = "Type"
	CategoryDriver    Category = "Driver"
)

// Diagnostic is a single compiler error with position, optional end
// column, and source context.
type Diagnostic struct {
	Message   string
	Source    string
	File      string
	Category  Category
	Pos       token.Position
	EndColumn int // 0 means "no range, just a caret at Pos.Column"
}

// New constructs a Diagnostic with no range (a single caret).
func New(category Category, pos token.Position, message string) *Diagnostic {
	return &Diagnostic{Category: category, Pos: pos, Message: message}
}

// NewRange constructs a Diagnostic underlining [pos.Column, endColumn).
func NewRange(category Category, pos token.Position, endColumn int, message string) *Diagnostic {
	return &Diagnostic{Category: category, Pos: pos, EndColumn: endColumn, Message: message}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic as:
//
//	<file>:<line>:<col>: error: <message>
//	<line#>  | <source line verbatim>
//	         |     ^~~~
//
// If color is true, ANSI color codes highlight the caret.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	file := d.File
	if file == "" {
		file = "<input>"
	}
	fmt.Fprintf(&sb, "%s:%d:%d: error: %s\n", file, d.Pos.Line, d.Pos.Column, d.Message)

	sourceLine := d.sourceLine(d.Pos.Line)
	if sourceLine != "" {
		gutter := fmt.Sprintf("%d", d.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString("  | ")
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(gutter)))
		sb.WriteString("  | ")
		sb.WriteString(strings.Repeat(" ", underlinePad(sourceLine, d.Pos.Column)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		sb.WriteString(strings.Repeat("~", d.tildeCount()))
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// tildeCount returns how many '~' characters follow the caret: the caret
// sits at the start column and the tilde run ends one column before the
// range end, so a range [5, 9) renders as "^~~~".
func (d *Diagnostic) tildeCount() int {
	if d.EndColumn <= d.Pos.Column+1 {
		return 0
	}
	return d.EndColumn - d.Pos.Column - 1
}

// underlinePad returns how many spaces precede the caret so it lands
// under column in the printed source line. Columns count runes, but a
// terminal renders East Asian wide/fullwidth runes as two cells, so
// each rune before the caret contributes its display width, not 1.
func underlinePad(line string, column int) int {
	target := column - 1
	if target <= 0 {
		return 0
	}
	runes := []rune(line)
	pad := 0
	for i := 0; i < target; i++ {
		if i >= len(runes) {
			pad++
			continue
		}
		pad += runeWidth(runes[i])
	}
	return pad
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

func (d *Diagnostic) sourceLine(line int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a batch of diagnostics, one after another, separated
// by blank lines.
func FormatAll(diags []*Diagnostic, color bool) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.Format(color))
		sb.WriteString("\n")
	}
	return sb.String()
}
