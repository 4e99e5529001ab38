package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

// State is the interpreter state.
type State int

const (
	STATE_RUNNING = State(0) // Instructions remain to execute.
	STATE_HALTED  = State(1) // Pc reached the end of the code.
	STATE_FAULT   = State(2) // A fatal decode or execute error occurred.
)

func (st State) String() string {
	switch st {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	case STATE_FAULT:
		return "fault"
	}
	return fmt.Sprintf("State(%d)", int(st))
}

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
	"OP_LDC":         fmt.Sprintf("%v", uint8(OP_LDC)),
	"OP_READ":        fmt.Sprintf("%v", uint8(OP_READ)),
	"OP_WRITE":       fmt.Sprintf("%v", uint8(OP_WRITE)),
	"OP_RSH":         fmt.Sprintf("%v", uint8(OP_RSH)),
}

// Cpu is the UVM machine state: register bank, data memory, instruction
// store and program counter. A Cpu is owned by a single run.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]int64 // Register bank.
	Memory   Memory                // Data memory.
	Code     []byte                // Instruction store.
	Pc       int                   // Program counter, as a byte index into Code.

	State State // Interpreter state.
	Fault error // Terminal error, when State is STATE_FAULT.
	Ticks int   // Executed instruction counter.
}

// NewCpu creates a new CPU, with a fresh state, for a code image.
func NewCpu(code []byte) (cpu *Cpu) {
	cpu = &Cpu{
		Code: code,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and data memory.
// - Zeros the pc and tick counter.
// - Leaves the instruction store as is.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0
	cpu.Fault = nil
	cpu.State = STATE_RUNNING
	if len(cpu.Code) == 0 {
		cpu.State = STATE_HALTED
	}
}

// String returns the current CPU state as a string.
// Only non-zero registers are listed.
func (cpu *Cpu) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "%5s: %v\n", "state", cpu.State)
	fmt.Fprintf(&text, "%5s: %04x\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		if val == 0 {
			continue
		}
		fmt.Fprintf(&text, "%5s: %v\n", fmt.Sprintf("r%d", n), val)
	}
	fmt.Fprintf(&text, "%5s: %v\n", "mem", cpu.Memory.Len())

	return text.String()
}

// Fetch decodes the instruction at the pc.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	if cpu.Pc >= len(cpu.Code) {
		err = ErrPcEnd
		return
	}

	op := Op(cpu.Code[cpu.Pc] & OPCODE_MASK)
	defer func() {
		if err != nil {
			err = &ErrPc{Pc: cpu.Pc, Op: op, Err: err}
		}
	}()

	size, decode, ok := Lookup(op)
	if !ok {
		err = ErrOpcodeUnknown
		return
	}

	if cpu.Pc+size > len(cpu.Code) {
		err = ErrOpcodeTruncated
		return
	}

	inst = decode(cpu.Code[cpu.Pc : cpu.Pc+size])

	return
}

// Tick executes a single fetch-decode-execute cycle.
// Returns ErrPcEnd once the pc reaches the end of the code, and the
// stored fault on every call after a fault.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_FAULT:
		return cpu.Fault
	case STATE_HALTED:
		return ErrPcEnd
	}

	defer func() {
		if err != nil && !errors.Is(err, ErrPcEnd) {
			cpu.State = STATE_FAULT
			cpu.Fault = err
		}
	}()

	inst, err := cpu.Fetch()
	if errors.Is(err, ErrPcEnd) {
		cpu.State = STATE_HALTED
		return
	}
	if err != nil {
		return
	}

	err = cpu.Execute(inst)
	if err != nil {
		err = &ErrPc{Pc: cpu.Pc, Op: inst.Op(), Err: err}
		return
	}

	cpu.Pc += inst.Op().Size()
	cpu.Ticks++

	if cpu.Pc >= len(cpu.Code) {
		cpu.State = STATE_HALTED
	}

	return
}

// Run ticks the CPU until it halts or faults.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrPcEnd) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// Execute applies a single decoded instruction to the CPU state.
// The pc is not modified.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, inst)
	}

	switch inst := inst.(type) {
	case LoadConst:
		cpu.Register[inst.Dst] = int64(inst.Const)
	case Read:
		addr := cpu.Register[inst.Src] + int64(inst.Offset)
		cpu.Register[inst.Dst] = cpu.Memory.Load(addr)
		if cpu.Verbose {
			log.Printf("cpu: r%d <- mem[%d] = %d", inst.Dst, addr, cpu.Register[inst.Dst])
		}
	case Write:
		addr := cpu.Register[inst.Dst]
		cpu.Memory.Store(addr, cpu.Register[inst.Src])
		if cpu.Verbose {
			log.Printf("cpu: mem[%d] <- r%d = %d", addr, inst.Src, cpu.Register[inst.Src])
		}
	case ShiftRight:
		operand := cpu.Register[inst.Operand]
		amount := cpu.Memory.Load(cpu.Register[inst.Src] + int64(inst.SrcOffset))
		if amount < 0 {
			err = ErrShiftNegative
			return
		}
		addr := cpu.Register[inst.Dst] + int64(inst.DstOffset)
		cpu.Memory.Store(addr, doShift(operand, amount))
		if cpu.Verbose {
			log.Printf("cpu: mem[%d] <- %d >> %d = %d", addr, operand, amount, cpu.Memory.Load(addr))
		}
	default:
		panic("unknown instruction")
	}

	return
}

// doShift performs an arithmetic right shift.
// Shifts of 64 or more bits saturate to the sign.
func doShift(operand int64, amount int64) int64 {
	if amount >= 64 {
		amount = 63
	}
	return operand >> uint(amount)
}
