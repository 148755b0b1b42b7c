package codegen

import "github.com/monadlang/monad/internal/env"

// NewBaseEnvironment creates a fresh Environment seeded with Monad's
// special-form/arithmetic builtins, so arity checks and the
// environment dump / tab-completion candidate list have entries to
// report even before any user `define`.
func NewBaseEnvironment() *env.Environment {
	e := env.New()
	e.InsertBuiltin("+", 1, -1)
	e.InsertBuiltin("-", 1, -1)
	e.InsertBuiltin("*", 1, -1)
	e.InsertBuiltin("/", 1, -1)
	e.InsertBuiltin("show", 1, 1)
	e.InsertBuiltin("define", 2, 2)
	return e
}
