// Package env implements Monad's environment: a single-scope, hashed
// symbol table with overwrite-on-insert semantics.
package env

import "github.com/monadlang/monad/internal/types"

const initialBucketCount = 16

// EntryKind tags which EnvEntry variant is stored.
type EntryKind int

const (
	KindVariable EntryKind = iota
	KindBuiltin
	KindFunction
)

// FunctionParam is one parameter of a Function entry: a name paired with
// its resolved type.
type FunctionParam struct {
	Name string
	Type *types.Type
}

// Entry is one tagged environment binding. Exactly one of the per-kind
// field groups is meaningful, selected by Kind.
type Entry struct {
	// Variable
	VarType    *types.Type
	VarStorage any // opaque backend storage handle (ir.Value / ir.Global)

	// Builtin
	ArityMin int
	ArityMax int // -1 means unbounded

	// Function
	FnParams     []FunctionParam
	FnReturnType *types.Type
	FnHandle     any // opaque backend function handle (*ir.Function)

	Kind      EntryKind
	Docstring string
}

type bucketEntry struct {
	name  string
	entry Entry
	next  *bucketEntry
}

// Environment is a DJB2-hashed, separate-chaining symbol table. Insertion
// of an existing name overwrites the prior entry, including its
// docstring.
type Environment struct {
	buckets []*bucketEntry
	count   int
}

// New creates an empty Environment with the required 16 initial
// buckets.
func New() *Environment {
	return &Environment{buckets: make([]*bucketEntry, initialBucketCount)}
}

// djb2 is the classic Bernstein string hash (h = h*33 + c).
func djb2(name string) uint32 {
	var hash uint32 = 5381
	for i := 0; i < len(name); i++ {
		hash = hash*33 + uint32(name[i])
	}
	return hash
}

func (e *Environment) bucketIndex(name string) int {
	return int(djb2(name) % uint32(len(e.buckets)))
}

// Insert stores or overwrites entry under name.
func (e *Environment) Insert(name string, entry Entry) {
	idx := e.bucketIndex(name)
	for b := e.buckets[idx]; b != nil; b = b.next {
		if b.name == name {
			b.entry = entry
			return
		}
	}
	e.buckets[idx] = &bucketEntry{name: name, entry: entry, next: e.buckets[idx]}
	e.count++
}

// InsertVariable binds name to a Variable entry.
func (e *Environment) InsertVariable(name string, t *types.Type, storage any) {
	e.Insert(name, Entry{Kind: KindVariable, VarType: types.Clone(t), VarStorage: storage})
}

// InsertBuiltin binds name to a Builtin entry with the given arity range.
// arityMax == -1 means unbounded.
func (e *Environment) InsertBuiltin(name string, arityMin, arityMax int) {
	e.Insert(name, Entry{Kind: KindBuiltin, ArityMin: arityMin, ArityMax: arityMax})
}

// InsertFunction binds name to a Function entry.
func (e *Environment) InsertFunction(name string, params []FunctionParam, ret *types.Type, handle any, doc string) {
	e.Insert(name, Entry{
		Kind:         KindFunction,
		FnParams:     params,
		FnReturnType: types.Clone(ret),
		FnHandle:     handle,
		Docstring:    doc,
	})
}

// Lookup returns the entry bound to name, and whether it was found.
func (e *Environment) Lookup(name string) (Entry, bool) {
	idx := e.bucketIndex(name)
	for b := e.buckets[idx]; b != nil; b = b.next {
		if b.name == name {
			return b.entry, true
		}
	}
	return Entry{}, false
}

// Names returns every bound name in an unspecified order; callers that
// need stable output (the environment dump, tab completion) should sort
// the result themselves.
func (e *Environment) Names() []string {
	names := make([]string, 0, e.count)
	for _, head := range e.buckets {
		for b := head; b != nil; b = b.next {
			names = append(names, b.name)
		}
	}
	return names
}

// Clone produces an independent copy of e, used as a function body's
// child scope so that bindings made while compiling the body never reach
// the outer environment.
func (e *Environment) Clone() *Environment {
	clone := New()
	for _, head := range e.buckets {
		for b := head; b != nil; b = b.next {
			clone.Insert(b.name, b.entry)
		}
	}
	return clone
}
