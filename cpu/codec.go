package cpu

// Decoder decodes a complete little-endian instruction window.
type Decoder func(window []byte) Instruction

type opcodeEntry struct {
	size   int
	decode Decoder
}

// decodeTable maps each opcode to its encoded size and decoder.
var decodeTable = map[Op]opcodeEntry{
	OP_LDC:   {4, decoderOf(OP_LDC)},
	OP_READ:  {4, decoderOf(OP_READ)},
	OP_WRITE: {3, decoderOf(OP_WRITE)},
	OP_RSH:   {5, decoderOf(OP_RSH)},
}

// decoderOf returns the field extracting decoder for an opcode.
func decoderOf(op Op) Decoder {
	fields := op.Fields()
	return func(window []byte) Instruction {
		word := wordOf(window)
		values := make([]uint64, len(fields))
		for n, fd := range fields {
			values[n] = fd.Mask(word >> fd.Shift)
		}
		return makeInstruction(op, values)
	}
}

// wordOf assembles a little-endian word.
func wordOf(window []byte) (word uint64) {
	for n, b := range window {
		word |= uint64(b) << (8 * n)
	}
	return
}

// Lookup returns the encoded size and decoder for an opcode.
func Lookup(op Op) (size int, decode Decoder, ok bool) {
	entry, ok := decodeTable[op]
	if !ok {
		return
	}

	size = entry.size
	decode = entry.decode
	return
}

// Word returns the packed instruction word.
// Fields are masked to their width, but not range checked.
func Word(inst Instruction) (word uint64) {
	op := inst.Op()
	word = uint64(op) & OPCODE_MASK
	for n, value := range inst.values() {
		fd := op.Fields()[n]
		word |= fd.Mask(value) << fd.Shift
	}
	return
}

// Encode returns the little-endian encoding of an instruction.
func Encode(inst Instruction) (data []byte) {
	word := Word(inst)
	data = make([]byte, inst.Op().Size())
	for n := range data {
		data[n] = byte(word >> (8 * n))
	}
	return
}

// EncodeProgram returns the concatenated encoding of the instructions.
func EncodeProgram(insts ...Instruction) (data []byte) {
	for _, inst := range insts {
		data = append(data, Encode(inst)...)
	}
	return
}

// Decode decodes the instruction at the start of window.
// The window may be longer than the instruction.
func Decode(window []byte) (inst Instruction, err error) {
	if len(window) == 0 {
		err = ErrOpcodeTruncated
		return
	}

	size, decode, ok := Lookup(Op(window[0] & OPCODE_MASK))
	if !ok {
		err = ErrOpcodeUnknown
		return
	}

	if len(window) < size {
		err = ErrOpcodeTruncated
		return
	}

	inst = decode(window[:size])
	return
}
