// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"
	"strings"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
	"github.com/ezrec/uvm/io"
)

// predefines collects repeated -D NAME=VALUE flags.
type predefines map[string]string

func (pd predefines) String() string {
	var text []string
	for name, value := range pd {
		text = append(text, name+"="+value)
	}
	return strings.Join(text, ",")
}

func (pd predefines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("expected NAME=VALUE, got %q", text)
	}
	pd[name] = value
	return nil
}

// listing prints a program, one opcode per line.
func listing(title string, prog *cpu.Program) {
	fmt.Printf("--- %v ---\n", title)
	for _, op := range prog.Opcodes {
		fmt.Printf("%4d %04x: % -14x %v\n", op.LineNo, op.Pc, cpu.Encode(op.Instruction), op.Instruction)
	}
	fmt.Printf("--- %v bytes ---\n", prog.Size())
}

// run executes the loaded program. The configured dump is written even
// when the run faults, and holds the effects of the instructions before
// the fault.
func run(emu *emulator.Emulator, cfg *emulator.Config, stdout goio.Writer) (err error) {
	err = emu.Run()

	if len(cfg.Dump.Path) != 0 {
		var dump_err error
		mem := emu.Dump(cfg.Dump.Start, cfg.Dump.End)
		if cfg.Dump.Path == "-" {
			dump_err = io.WriteDump(stdout, mem)
		} else {
			dump_err = io.SaveDump(cfg.Dump.Path, mem)
		}
		err = errors.Join(err, dump_err)
	}

	return
}

func main() {
	var compile string
	var output string
	var binary string
	var save bool
	var dump string
	var dump_range string
	var test bool
	var config string
	var verbose bool
	defines := predefines{}

	flag.StringVar(&compile, "c", "", ".uvm or .yaml file to compile")
	flag.StringVar(&output, "o", "", "Binary file to write")
	flag.StringVar(&binary, "b", "", "Binary file to run")
	flag.BoolVar(&save, "s", false, "Compile only, do not execute")
	flag.StringVar(&dump, "d", "", "Memory dump JSON file to write ('-' for stdout)")
	flag.StringVar(&dump_range, "r", fmt.Sprintf("%v-%v", io.DUMP_START, io.DUMP_END), "Memory dump range")
	flag.BoolVar(&test, "t", false, "Test mode, print the assembled and disassembled program")
	flag.StringVar(&config, "f", "", ".toml configuration file")
	flag.Var(defines, "D", "Predefine an equate, as NAME=VALUE")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	}

	if len(compile) == 0 && len(binary) == 0 {
		log.Fatalf("%v: one of -c or -b is required", os.Args[0])
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Flags override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "v":
			cfg.Verbose = verbose
		case "d":
			cfg.Dump.Path = dump
		case "r":
			start, end, err := io.ParseRange(dump_range)
			if err != nil {
				log.Fatalf("-r: %v", err)
			}
			cfg.Dump.Start, cfg.Dump.End = start, end
		}
	})

	emu := emulator.NewEmulator()
	cfg.Apply(emu)
	for name, value := range defines {
		emu.Predefine[name] = value
	}

	var prog *cpu.Program
	var code []byte

	// Compile a new instruction stream.
	if len(compile) != 0 {
		var err error
		prog, err = emu.AssembleFile(compile)
		if err != nil {
			log.Fatal(err)
		}

		code = prog.Binary()

		if test {
			listing("Intermediate Representation", prog)
		}

		if len(output) != 0 {
			err = io.SaveImage(output, code)
			if err != nil {
				log.Fatal(err)
			}
			if emu.Verbose {
				log.Printf("%v: %v bytes", output, len(code))
			}
		}
	} else {
		var err error
		code, err = io.LoadImage(binary)
		if err != nil {
			log.Fatal(err)
		}
	}

	if test {
		dis, err := cpu.Disassemble(code)
		listing("Disassembly", dis)
		if err != nil {
			log.Fatalf("disassembly: %v", err)
		}
	}

	if save {
		return
	}

	// A compiled program keeps its source line numbers.
	if prog != nil {
		emu.Load(prog)
	} else {
		emu.LoadBinary(code)
	}

	err := run(emu, cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	if emu.Verbose {
		log.Print(emu.Cpu.String())
	}
}
