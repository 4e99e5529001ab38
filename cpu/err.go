package cpu

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEnd         = errors.New(f("pc at end of code"))
	ErrShiftNegative = errors.New(f("negative shift amount"))

	// Instruction decode errors
	ErrOpcodeUnknown   = errors.New(f("opcode unknown"))
	ErrOpcodeTruncated = errors.New(f("opcode truncated"))

	// Assembler errors
	ErrEquateSyntax      = errors.New(f(".equ syntax"))
	ErrEquateDuplicate   = errors.New(f(".equ duplicated"))
	ErrMacroSyntax       = errors.New(f(".macro syntax"))
	ErrMacroNesting      = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate    = errors.New(f(".macro duplicated"))
	ErrMacroLonely       = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm   = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs   = errors.New(f("excessive arguments"))
	ErrOpcodeMissingArgs = errors.New(f("arguments missing"))
	ErrOperationInvalid  = errors.New(f("operation invalid"))
	ErrRegisterInvalid   = errors.New(f("register invalid"))

	// Source loader errors
	ErrProgramMissing = errors.New(f("'program' key missing"))
	ErrFieldMissing   = errors.New(f("field missing"))
	ErrFieldUnknown   = errors.New(f("field unknown"))
	ErrFieldType      = errors.New(f("field not an integer"))
)

// ErrOperation is an unrecognized operation tag.
type ErrOperation string

func (err ErrOperation) Error() string {
	return f("unknown instruction: %v", string(err))
}

func (err ErrOperation) Is(target error) bool {
	return target == ErrOperationInvalid
}

// ErrFieldRange is a field value that does not fit the field width.
type ErrFieldRange struct {
	Field Field
	Value uint64
}

func (err *ErrFieldRange) Error() string {
	return f("%v value %v exceeds %v", err.Field.Name, err.Value, err.Field.Max())
}

// ErrPc is a fatal interpreter error at a program counter.
type ErrPc struct {
	Pc  int
	Op  Op
	Err error
}

func (err *ErrPc) Error() string {
	return f("pc %v opcode %v: %v", err.Pc, uint8(err.Op), err.Err)
}

func (err *ErrPc) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
