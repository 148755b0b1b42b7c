package ir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Monad bitcode file format (written as .bc, and as .o by --emit-obj)
//
// Header (8 bytes): magic "MNBC" (4 bytes), version major/minor/patch
// (3 bytes), reserved (1 byte).
//
// Body: module name, external count + externals, global count + globals (with
// string payloads inlined for KindPtr globals), function count +
// per-function chunks (name, param kinds, return kind, constant
// pools, instruction stream), and the entry function's index (-1 when
// the module has none).
const (
	magicNumber  = "MNBC"
	versionMajor = 1
	versionMinor = 0
	versionPatch = 0
)

// Serializer encodes and decodes Modules to Monad's binary bitcode format.
type Serializer struct{}

// NewSerializer returns a Serializer.
func NewSerializer() *Serializer { return &Serializer{} }

// Write encodes module to w.
func (s *Serializer) Write(w io.Writer, module *Module) error {
	var buf bytes.Buffer
	buf.WriteString(magicNumber)
	buf.Write([]byte{versionMajor, versionMinor, versionPatch, 0})

	writeString(&buf, module.Name)

	binary.Write(&buf, binary.LittleEndian, uint32(len(module.Externals)))
	for _, ext := range module.Externals {
		writeString(&buf, ext.Name)
		writeKinds(&buf, ext.ParamKinds)
		buf.WriteByte(byte(ext.ReturnKind))
		writeBool(&buf, ext.Variadic)
	}

	binary.Write(&buf, binary.LittleEndian, uint32(len(module.Globals)))
	for i, g := range module.Globals {
		writeString(&buf, g.Name)
		buf.WriteByte(byte(g.Kind))
		str, hasStr := module.GlobalStrings[i]
		writeBool(&buf, hasStr)
		if hasStr {
			writeString(&buf, str)
		}
	}

	binary.Write(&buf, binary.LittleEndian, uint32(len(module.Functions)))
	for _, fn := range module.Functions {
		if err := writeFunction(&buf, fn); err != nil {
			return err
		}
	}

	entryIndex := int32(-1)
	for i, fn := range module.Functions {
		if fn == module.EntryFunction {
			entryIndex = int32(i)
			break
		}
	}
	binary.Write(&buf, binary.LittleEndian, entryIndex)

	_, err := w.Write(buf.Bytes())
	return err
}

func writeFunction(buf *bytes.Buffer, fn *Function) error {
	writeString(buf, fn.Name)
	writeKinds(buf, fn.ParamKinds)
	buf.WriteByte(byte(fn.ReturnKind))

	chunk := fn.chunk
	binary.Write(buf, binary.LittleEndian, int32(chunk.NumLocals))
	binary.Write(buf, binary.LittleEndian, int32(chunk.ParamCount))

	binary.Write(buf, binary.LittleEndian, uint32(len(chunk.IntConstants)))
	for _, c := range chunk.IntConstants {
		binary.Write(buf, binary.LittleEndian, c)
	}
	binary.Write(buf, binary.LittleEndian, uint32(len(chunk.FloatConstants)))
	for _, c := range chunk.FloatConstants {
		binary.Write(buf, binary.LittleEndian, c)
	}

	binary.Write(buf, binary.LittleEndian, uint32(len(chunk.Code)))
	for _, inst := range chunk.Code {
		binary.Write(buf, binary.LittleEndian, uint32(inst))
	}

	binary.Write(buf, binary.LittleEndian, uint32(len(chunk.Lines)))
	for _, li := range chunk.Lines {
		binary.Write(buf, binary.LittleEndian, int32(li.InstructionOffset))
		binary.Write(buf, binary.LittleEndian, int32(li.Line))
	}
	return nil
}

// Read decodes a Module from r.
func (s *Serializer) Read(r io.Reader) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewReader(data)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(buf, magic); err != nil {
		return nil, fmt.Errorf("ir: reading magic: %w", err)
	}
	if string(magic) != magicNumber {
		return nil, fmt.Errorf("ir: not a Monad bitcode file (bad magic %q)", magic)
	}
	version := make([]byte, 4)
	if _, err := io.ReadFull(buf, version); err != nil {
		return nil, err
	}
	if version[0] != versionMajor {
		return nil, fmt.Errorf("ir: incompatible bitcode version %d.%d.%d", version[0], version[1], version[2])
	}

	name, err := readString(buf)
	if err != nil {
		return nil, err
	}
	module := newModule(name)

	var externalCount uint32
	if err := binary.Read(buf, binary.LittleEndian, &externalCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < externalCount; i++ {
		extName, err := readString(buf)
		if err != nil {
			return nil, err
		}
		kinds, err := readKinds(buf)
		if err != nil {
			return nil, err
		}
		retKind, err := buf.ReadByte()
		if err != nil {
			return nil, err
		}
		variadic, err := readBool(buf)
		if err != nil {
			return nil, err
		}
		module.Externals = append(module.Externals, &External{
			Name: extName, ParamKinds: kinds, ReturnKind: ValueKind(retKind), Variadic: variadic,
		})
	}

	var globalCount uint32
	if err := binary.Read(buf, binary.LittleEndian, &globalCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < globalCount; i++ {
		gName, err := readString(buf)
		if err != nil {
			return nil, err
		}
		kind, err := buf.ReadByte()
		if err != nil {
			return nil, err
		}
		hasStr, err := readBool(buf)
		if err != nil {
			return nil, err
		}
		module.Globals = append(module.Globals, GlobalVar{Name: gName, Kind: ValueKind(kind)})
		if hasStr {
			str, err := readString(buf)
			if err != nil {
				return nil, err
			}
			module.GlobalStrings[int(i)] = str
		}
	}

	var functionCount uint32
	if err := binary.Read(buf, binary.LittleEndian, &functionCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < functionCount; i++ {
		fn, err := readFunction(buf)
		if err != nil {
			return nil, err
		}
		module.Functions = append(module.Functions, fn)
	}

	var entryIndex int32
	if err := binary.Read(buf, binary.LittleEndian, &entryIndex); err != nil {
		return nil, fmt.Errorf("ir: reading entry index: %w", err)
	}
	if entryIndex >= 0 && int(entryIndex) < len(module.Functions) {
		module.EntryFunction = module.Functions[entryIndex]
	}

	return module, nil
}

func readFunction(buf *bytes.Reader) (*Function, error) {
	name, err := readString(buf)
	if err != nil {
		return nil, err
	}
	kinds, err := readKinds(buf)
	if err != nil {
		return nil, err
	}
	retKind, err := buf.ReadByte()
	if err != nil {
		return nil, err
	}

	chunk := newChunk(name)
	var numLocals, paramCount int32
	binary.Read(buf, binary.LittleEndian, &numLocals)
	binary.Read(buf, binary.LittleEndian, &paramCount)
	chunk.NumLocals = int(numLocals)
	chunk.ParamCount = int(paramCount)

	var intCount uint32
	binary.Read(buf, binary.LittleEndian, &intCount)
	chunk.IntConstants = make([]int64, intCount)
	for i := range chunk.IntConstants {
		binary.Read(buf, binary.LittleEndian, &chunk.IntConstants[i])
	}

	var floatCount uint32
	binary.Read(buf, binary.LittleEndian, &floatCount)
	chunk.FloatConstants = make([]float64, floatCount)
	for i := range chunk.FloatConstants {
		binary.Read(buf, binary.LittleEndian, &chunk.FloatConstants[i])
	}

	var codeCount uint32
	binary.Read(buf, binary.LittleEndian, &codeCount)
	chunk.Code = make([]Instruction, codeCount)
	for i := range chunk.Code {
		var raw uint32
		binary.Read(buf, binary.LittleEndian, &raw)
		chunk.Code[i] = Instruction(raw)
	}

	var lineCount uint32
	binary.Read(buf, binary.LittleEndian, &lineCount)
	chunk.Lines = make([]LineInfo, lineCount)
	for i := range chunk.Lines {
		var offset, line int32
		binary.Read(buf, binary.LittleEndian, &offset)
		binary.Read(buf, binary.LittleEndian, &line)
		chunk.Lines[i] = LineInfo{InstructionOffset: int(offset), Line: int(line)}
	}

	return &Function{Name: name, ParamKinds: kinds, ReturnKind: ValueKind(retKind), chunk: chunk}, nil
}

func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.LittleEndian, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", err
	}
	return string(data), nil
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeKinds(buf *bytes.Buffer, kinds []ValueKind) {
	binary.Write(buf, binary.LittleEndian, uint32(len(kinds)))
	for _, k := range kinds {
		buf.WriteByte(byte(k))
	}
}

func readKinds(r *bytes.Reader) ([]ValueKind, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	kinds := make([]ValueKind, count)
	for i := range kinds {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		kinds[i] = ValueKind(b)
	}
	return kinds, nil
}
