// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/internal"
	"github.com/ezrec/uvm/io"
)

var _emulator_defines = map[string]string{
	"DUMP_START": fmt.Sprintf("%v", io.DUMP_START),
	"DUMP_END":   fmt.Sprintf("%v", io.DUMP_END),
}

// Emulator state. CPU + the program listing it runs.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Predefine map[string]string // Equates predefined for every assembly.
}

// NewEmulator creates a new emulator, with an empty program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:       cpu.NewCpu(nil),
		Program:   &cpu.Program{},
		Predefine: map[string]string{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		maps.All(emu.Predefine),
	)
}

// Load an assembled program, and reset the CPU.
func (emu *Emulator) Load(prog *cpu.Program) {
	emu.Program = prog
	emu.Cpu.Code = prog.Binary()

	emu.Reset()
}

// LoadBinary loads a binary image, and resets the CPU.
// The listing covers the instructions that decode; a bad encoding is only
// reported when the CPU reaches it.
func (emu *Emulator) LoadBinary(code []byte) {
	prog, err := cpu.Disassemble(code)
	if err != nil && emu.Verbose {
		log.Printf("emulator: listing: %v", err)
	}

	emu.Program = prog
	emu.Cpu.Code = code

	emu.Reset()
}

// Reset the CPU state. The program is kept.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has run off the end of the code.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrPcEnd) {
		err = nil
		done = true
		return
	}

	return
}

// Run ticks the emulator until done, or a runtime error.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: %v ticks", emu.Cpu.Ticks)
	}

	return
}

// Dump returns the written data memory in the inclusive range [start, end].
func (emu *Emulator) Dump(start, end int64) *io.Dump {
	return io.NewDump(start, end, emu.Cpu.Memory.Range(start, end))
}
