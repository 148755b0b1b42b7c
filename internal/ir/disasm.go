package ir

import (
	"fmt"
	"io"
)

// Disassembler renders a Module's compiled chunks as textual IR for the
// `--emit-ir`/`lex`-adjacent `build --dump-ir` output paths.
type Disassembler struct {
	w      io.Writer
	module *Module
}

// NewDisassembler creates a disassembler writing to w.
func NewDisassembler(module *Module, w io.Writer) *Disassembler {
	return &Disassembler{w: w, module: module}
}

// Disassemble prints every function chunk in the module.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.w, "; module %s\n", d.module.Name)
	for i, ext := range d.module.Externals {
		fmt.Fprintf(d.w, "declare external [%d] %s(%v) -> %v variadic=%v\n", i, ext.Name, ext.ParamKinds, ext.ReturnKind, ext.Variadic)
	}
	for i, g := range d.module.Globals {
		fmt.Fprintf(d.w, "global [%d] %s : %v\n", i, g.Name, g.Kind)
	}
	fmt.Fprintln(d.w)
	for _, fn := range d.module.Functions {
		d.disassembleFunction(fn)
	}
}

func (d *Disassembler) disassembleFunction(fn *Function) {
	chunk := fn.chunk
	fmt.Fprintf(d.w, "function %s(%v) -> %v\n", fn.Name, fn.ParamKinds, fn.ReturnKind)
	if len(chunk.IntConstants) > 0 {
		fmt.Fprintln(d.w, "  int constants:")
		for i, c := range chunk.IntConstants {
			fmt.Fprintf(d.w, "    [%d] %d\n", i, c)
		}
	}
	if len(chunk.FloatConstants) > 0 {
		fmt.Fprintln(d.w, "  float constants:")
		for i, c := range chunk.FloatConstants {
			fmt.Fprintf(d.w, "    [%d] %g\n", i, c)
		}
	}
	for offset := 0; offset < len(chunk.Code); offset++ {
		d.disassembleInstruction(chunk, offset)
	}
	fmt.Fprintln(d.w)
}

func (d *Disassembler) disassembleInstruction(chunk *Chunk, offset int) {
	inst := chunk.Code[offset]
	op := inst.OpCode()
	line := chunk.LineAt(offset)
	fmt.Fprintf(d.w, "  %04d  line %-4d  %-16s", offset, line, op)

	switch op {
	case OpLoadConstI:
		fmt.Fprintf(d.w, "#%d  (%d)", inst.B(), chunk.IntConstants[inst.B()])
	case OpLoadConstF:
		fmt.Fprintf(d.w, "#%d  (%g)", inst.B(), chunk.FloatConstants[inst.B()])
	case OpLoadConstChar:
		fmt.Fprintf(d.w, "%d", inst.SignedA())
	case OpLoadLocal, OpStoreLocal:
		fmt.Fprintf(d.w, "slot %d", inst.B())
	case OpLoadGlobal, OpStoreGlobal:
		idx := inst.B()
		name := ""
		if int(idx) < len(d.module.Globals) {
			name = d.module.Globals[idx].Name
		}
		fmt.Fprintf(d.w, "#%d (%s)", idx, name)
	case OpCall:
		idx := inst.B()
		name := ""
		if int(idx) < len(d.module.Functions) {
			name = d.module.Functions[idx].Name
		}
		fmt.Fprintf(d.w, "argc=%d  #%d (%s)", inst.A(), idx, name)
	case OpCallExternal:
		idx := inst.B()
		name := ""
		if int(idx) < len(d.module.Externals) {
			name = d.module.Externals[idx].Name
		}
		fmt.Fprintf(d.w, "argc=%d  #%d (%s)", inst.A(), idx, name)
	}
	fmt.Fprintln(d.w)
}
