package emulator

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/uvm/cpu"
)

// Source file extensions.
const (
	SOURCE_EXT_TEXT = ".uvm"
	SOURCE_EXT_ASM  = ".s"
	SOURCE_EXT_YAML = ".yaml"
	SOURCE_EXT_YML  = ".yml"
)

// Assemble a source, selecting the text assembler or the YAML loader
// by the extension of name. Text sources see the emulator defines as
// predefined equates.
func (emu *Emulator) Assemble(name string, source []byte) (prog *cpu.Program, err error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case SOURCE_EXT_YAML, SOURCE_EXT_YML:
		prog, err = cpu.LoadYAML(bytes.NewReader(source))
	case SOURCE_EXT_TEXT, SOURCE_EXT_ASM:
		asm := &cpu.Assembler{Verbose: emu.Verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(bytes.NewReader(source))
	default:
		err = fmt.Errorf("%w: %q", ErrSourceFormat, filepath.Ext(name))
	}

	if err != nil {
		prog = nil
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %v: %v opcodes, %v bytes", name, len(prog.Opcodes), prog.Size())
	}

	return
}

// AssembleFile reads and assembles a source file.
func (emu *Emulator) AssembleFile(path string) (prog *cpu.Program, err error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return
	}

	prog, err = emu.Assemble(path, source)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}
