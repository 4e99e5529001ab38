package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo      int
	Pc          int
	Words       []string
	Instruction Instruction
}

// Size returns the encoded size of the opcode.
func (op *Opcode) Size() int {
	return op.Instruction.Op().Size()
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
}

// Debug returns the opcode that covers a pc, if any.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= op.Pc && pc < op.Pc+op.Size() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Size returns the byte size of the program binary.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += op.Size()
	}
	return
}

// Binary returns the concatenated encoding of all the opcodes.
func (prog *Program) Binary() (bin []byte) {
	for _, inst := range prog.Instructions() {
		bin = append(bin, Encode(inst)...)
	}

	return
}

// Instructions returns the (pc, instruction) pairs of the program.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, inst Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Instruction) {
				return
			}
		}
	}
}

// Append adds an instruction at the end of the program.
func (prog *Program) Append(lineno int, words []string, inst Instruction) {
	prog.Opcodes = append(prog.Opcodes, Opcode{
		LineNo:      lineno,
		Pc:          prog.Size(),
		Words:       words,
		Instruction: inst,
	})
}

// Disassemble decodes a binary image into a program, without executing it.
// Each opcode's LineNo is its 1-based instruction index.
func Disassemble(code []byte) (prog *Program, err error) {
	prog = &Program{}

	pc := 0
	for pc < len(code) {
		var inst Instruction
		inst, err = Decode(code[pc:])
		if err != nil {
			err = &ErrPc{Pc: pc, Op: Op(code[pc] & OPCODE_MASK), Err: err}
			return
		}
		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo:      len(prog.Opcodes) + 1,
			Pc:          pc,
			Instruction: inst,
		})
		pc += inst.Op().Size()
	}

	return
}
