package ir

// LineInfo run-length-encodes instruction offset to source line, so a
// diagnostic can be attributed to the code that produced a given
// instruction during --dump-ir or a runtime fault.
type LineInfo struct {
	InstructionOffset int
	Line              int
}

// Chunk is one function's compiled instruction stream: the unit a
// Disassembler or the VM operates on.
type Chunk struct {
	Name           string
	Code           []Instruction
	IntConstants   []int64
	FloatConstants []float64
	Lines          []LineInfo
	NumLocals      int
	ParamCount     int
}

func newChunk(name string) *Chunk {
	return &Chunk{Name: name, Code: make([]Instruction, 0, 16)}
}

func (c *Chunk) write(inst Instruction, line int) int {
	idx := len(c.Code)
	c.Code = append(c.Code, inst)
	if len(c.Lines) == 0 || c.Lines[len(c.Lines)-1].Line != line {
		c.Lines = append(c.Lines, LineInfo{InstructionOffset: idx, Line: line})
	}
	return idx
}

// LineAt returns the source line attributed to instruction index idx.
func (c *Chunk) LineAt(idx int) int {
	line := 0
	for _, li := range c.Lines {
		if li.InstructionOffset > idx {
			break
		}
		line = li.Line
	}
	return line
}

func (c *Chunk) addIntConstant(v int64) int {
	for i, existing := range c.IntConstants {
		if existing == v {
			return i
		}
	}
	c.IntConstants = append(c.IntConstants, v)
	return len(c.IntConstants) - 1
}

func (c *Chunk) addFloatConstant(v float64) int {
	for i, existing := range c.FloatConstants {
		if existing == v {
			return i
		}
	}
	c.FloatConstants = append(c.FloatConstants, v)
	return len(c.FloatConstants) - 1
}

// External describes a host/runtime function callable via
// OpCallExternal: printf-shaped helpers and the runtime's binary/hex/
// octal integer formatter live here rather than as Functions, since
// they are implemented in the driver/runtime layer rather than compiled
// from Monad source.
type External struct {
	Name       string
	ParamKinds []ValueKind
	ReturnKind ValueKind
	Variadic   bool
}

// GlobalVar is a module-level storage slot: REPL top-level `define`s and
// the program's global bindings all live here so later expressions
// (including later REPL entries) can reference them by index.
type GlobalVar struct {
	Name string
	Kind ValueKind
}

// Module is the full compiled program: every function's chunk, the
// external declarations it may call, and the global variable table
// backing top-level bindings.
type Module struct {
	Name      string
	Functions []*Function
	Externals []*External
	Globals   []GlobalVar
	// GlobalStrings holds constant string payloads addressed by global
	// index for externals that take a format string (e.g. the show
	// runtime helper); Globals[i].Kind == KindPtr implies
	// GlobalStrings[i] holds the payload.
	GlobalStrings map[int]string
	// EntryFunction is the Function executed by `run`/`build`: it wraps
	// the program's top-level expression sequence.
	EntryFunction *Function
}

func newModule(name string) *Module {
	return &Module{Name: name, GlobalStrings: map[int]string{}}
}
