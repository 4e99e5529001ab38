// Package cpu implements the UVM virtual machine and its assemblers.
//
// Instructions are packed into a dense little-endian encoding whose first
// byte carries a 7-bit opcode. The opcode alone selects the encoded size
// (3, 4 or 5 bytes) and the decoder. The Cpu holds 64 integer registers,
// a sparse data memory, a read-only instruction store and a program
// counter, and runs a fetch-decode-execute loop until the program counter
// passes the end of the instruction store.
//
// Programs are written either in a line oriented assembly language
// (see Assembler), or as a YAML list of records (see LoadYAML).
package cpu
