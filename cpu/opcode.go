package cpu

import (
	"fmt"
)

// Op is the 7-bit opcode tag in the low bits of an instruction's first byte.
type Op uint8

const (
	OP_LDC   = Op(101) // ldc
	OP_READ  = Op(73)  // read
	OP_WRITE = Op(5)   // write
	OP_RSH   = Op(75)  // rsh
)

const (
	OPCODE_MASK    = 0x7f // Mask of the opcode in the first byte.
	OPCODE_BITS    = 7    // Width of the opcode.
	REGISTER_COUNT = 64   // Size of the register bank.
)

// Field describes a single bit field of an encoded instruction.
type Field struct {
	Name  string // Name of the field, as used by the YAML source format.
	Shift uint   // Bit position of the LSB of the field.
	Width uint   // Width of the field in bits.
	Reg   bool   // Field is a register index.
}

// Max returns the largest value the field can hold.
func (fd Field) Max() uint64 {
	return (uint64(1) << fd.Width) - 1
}

// Mask returns the value masked to the field width.
func (fd Field) Mask(value uint64) uint64 {
	return value & fd.Max()
}

const (
	FIELD_CONST       = "const"
	FIELD_OFFSET      = "offset"
	FIELD_SRC_REG     = "src_reg"
	FIELD_DST_REG     = "dst_reg"
	FIELD_DST_OFFSET  = "dst_offset"
	FIELD_SRC_OFFSET  = "src_offset"
	FIELD_OPERAND_REG = "operand_reg"
)

// Field layouts, in assembler operand order.
var (
	fieldsLdc = []Field{
		{FIELD_CONST, 7, 18, false},
		{FIELD_DST_REG, 25, 6, true},
	}
	fieldsRead = []Field{
		{FIELD_OFFSET, 7, 7, false},
		{FIELD_SRC_REG, 14, 6, true},
		{FIELD_DST_REG, 20, 6, true},
	}
	fieldsWrite = []Field{
		{FIELD_SRC_REG, 7, 6, true},
		{FIELD_DST_REG, 13, 6, true},
	}
	fieldsRsh = []Field{
		{FIELD_DST_REG, 7, 6, true},
		{FIELD_DST_OFFSET, 13, 7, false},
		{FIELD_SRC_OFFSET, 20, 7, false},
		{FIELD_SRC_REG, 27, 6, true},
		{FIELD_OPERAND_REG, 33, 6, true},
	}
)

// opMap maps operation names to opcodes.
var opMap = map[string]Op{
	"ldc":   OP_LDC,
	"read":  OP_READ,
	"write": OP_WRITE,
	"rsh":   OP_RSH,
}

// Ops returns all the known opcodes, in encoding table order.
func Ops() []Op {
	return []Op{OP_LDC, OP_READ, OP_WRITE, OP_RSH}
}

// ParseOp returns the opcode for an operation name.
func ParseOp(name string) (op Op, err error) {
	op, ok := opMap[name]
	if !ok {
		err = ErrOperation(name)
	}
	return
}

// Valid reports if the opcode is one of the known opcodes.
func (op Op) Valid() bool {
	_, ok := decodeTable[op]
	return ok
}

// Size returns the encoded size of the instruction in bytes, or 0 for an
// unknown opcode.
func (op Op) Size() int {
	return decodeTable[op].size
}

// Fields returns the operand field layout of the instruction.
func (op Op) Fields() []Field {
	switch op {
	case OP_LDC:
		return fieldsLdc
	case OP_READ:
		return fieldsRead
	case OP_WRITE:
		return fieldsWrite
	case OP_RSH:
		return fieldsRsh
	}
	return nil
}

func (op Op) String() string {
	switch op {
	case OP_LDC:
		return "ldc"
	case OP_READ:
		return "read"
	case OP_WRITE:
		return "write"
	case OP_RSH:
		return "rsh"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Instruction is a decoded UVM instruction.
// It is implemented only by LoadConst, Read, Write and ShiftRight.
type Instruction interface {
	Op() Op
	String() string
	values() []uint64
}

// LoadConst loads a constant into a register.
type LoadConst struct {
	Const uint32
	Dst   uint8
}

// Read loads a register from data memory at Register[Src] + Offset.
type Read struct {
	Offset uint8
	Src    uint8
	Dst    uint8
}

// Write stores Register[Src] to data memory at Register[Dst].
type Write struct {
	Src uint8
	Dst uint8
}

// ShiftRight stores Register[Operand] >> Memory[Register[Src]+SrcOffset]
// to Memory[Register[Dst]+DstOffset].
type ShiftRight struct {
	Dst       uint8
	DstOffset uint8
	SrcOffset uint8
	Src       uint8
	Operand   uint8
}

func (LoadConst) Op() Op  { return OP_LDC }
func (Read) Op() Op       { return OP_READ }
func (Write) Op() Op      { return OP_WRITE }
func (ShiftRight) Op() Op { return OP_RSH }

func (inst LoadConst) values() []uint64 {
	return []uint64{uint64(inst.Const), uint64(inst.Dst)}
}

func (inst Read) values() []uint64 {
	return []uint64{uint64(inst.Offset), uint64(inst.Src), uint64(inst.Dst)}
}

func (inst Write) values() []uint64 {
	return []uint64{uint64(inst.Src), uint64(inst.Dst)}
}

func (inst ShiftRight) values() []uint64 {
	return []uint64{uint64(inst.Dst), uint64(inst.DstOffset), uint64(inst.SrcOffset), uint64(inst.Src), uint64(inst.Operand)}
}

func (inst LoadConst) String() string {
	return fmt.Sprintf("ldc %d r%d", inst.Const, inst.Dst)
}

func (inst Read) String() string {
	return fmt.Sprintf("read %d r%d r%d", inst.Offset, inst.Src, inst.Dst)
}

func (inst Write) String() string {
	return fmt.Sprintf("write r%d r%d", inst.Src, inst.Dst)
}

func (inst ShiftRight) String() string {
	return fmt.Sprintf("rsh r%d %d %d r%d r%d", inst.Dst, inst.DstOffset, inst.SrcOffset, inst.Src, inst.Operand)
}

// MakeInstruction builds an instruction from operand values given in
// Op.Fields() order, checking each value against its field width.
func MakeInstruction(op Op, values ...uint64) (inst Instruction, err error) {
	fields := op.Fields()
	if fields == nil {
		err = ErrOpcodeUnknown
		return
	}
	if len(values) < len(fields) {
		err = ErrOpcodeMissingArgs
		return
	}
	if len(values) > len(fields) {
		err = ErrOpcodeExtraArgs
		return
	}

	for n, fd := range fields {
		if values[n] > fd.Max() {
			err = &ErrFieldRange{Field: fd, Value: values[n]}
			return
		}
	}

	inst = makeInstruction(op, values)

	return
}

// makeInstruction builds an instruction without range checks.
func makeInstruction(op Op, v []uint64) (inst Instruction) {
	switch op {
	case OP_LDC:
		inst = LoadConst{Const: uint32(v[0]), Dst: uint8(v[1])}
	case OP_READ:
		inst = Read{Offset: uint8(v[0]), Src: uint8(v[1]), Dst: uint8(v[2])}
	case OP_WRITE:
		inst = Write{Src: uint8(v[0]), Dst: uint8(v[1])}
	case OP_RSH:
		inst = ShiftRight{Dst: uint8(v[0]), DstOffset: uint8(v[1]), SrcOffset: uint8(v[2]), Src: uint8(v[3]), Operand: uint8(v[4])}
	default:
		panic("unknown opcode")
	}
	return
}
