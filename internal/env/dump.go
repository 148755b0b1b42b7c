package env

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Dump writes one line per entry in the following format:
//
//	Variable: [name :: TypeString]  ; docstring?
//	Builtin:  [name :: Fn (sig)]
//	Function: [name :: Fn (p1 p2 ...) -> Return]
func Dump(w io.Writer, e *Environment) {
	names := e.Names()
	sort.Strings(names)
	for _, name := range names {
		entry, _ := e.Lookup(name)
		line := formatEntry(name, entry)
		fmt.Fprintln(w, line)
	}
}

func formatEntry(name string, entry Entry) string {
	switch entry.Kind {
	case KindVariable:
		line := fmt.Sprintf("[%s :: %s]", name, entry.VarType.String())
		if entry.Docstring != "" {
			line += "  ; " + entry.Docstring
		}
		return line
	case KindBuiltin:
		return fmt.Sprintf("[%s :: Fn (%s)]", name, builtinSignature(entry.ArityMin, entry.ArityMax))
	case KindFunction:
		names := make([]string, len(entry.FnParams))
		for i, p := range entry.FnParams {
			names[i] = p.Name
		}
		sig := fmt.Sprintf("[%s :: Fn (%s)", name, strings.Join(names, " "))
		if entry.FnReturnType != nil {
			sig += " -> " + entry.FnReturnType.String()
		}
		sig += "]"
		return sig
	}
	return fmt.Sprintf("[%s :: ?]", name)
}

// builtinSignature renders an arity range Scheme-style: "_" for fully
// variadic, one "_" per required argument, optionally followed by ". _"
// (rest) or "#:optional _ _" (optionals).
func builtinSignature(min, max int) string {
	if min <= 0 && max == -1 {
		return "_"
	}
	tokens := make([]string, min)
	for i := range tokens {
		tokens[i] = "_"
	}
	sig := strings.Join(tokens, " ")
	switch {
	case max == -1:
		if sig != "" {
			sig += " . _"
		} else {
			sig = ". _"
		}
	case max > min:
		optCount := max - min
		opt := make([]string, optCount)
		for i := range opt {
			opt[i] = "_"
		}
		if sig != "" {
			sig += " #:optional " + strings.Join(opt, " ")
		} else {
			sig = "#:optional " + strings.Join(opt, " ")
		}
	}
	return sig
}
