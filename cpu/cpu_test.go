package cpu

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)

	assert.False(cpu.Verbose)
	assert.Equal(STATE_HALTED, cpu.State)
	assert.Equal(0, cpu.Pc)
	assert.Equal(0, cpu.Memory.Len())
	assert.NoError(cpu.Run())
	assert.Equal(0, cpu.Ticks)
}

func TestCpuWriteIndirect(t *testing.T) {
	assert := assert.New(t)

	code := EncodeProgram(
		LoadConst{Const: 7, Dst: 0},
		LoadConst{Const: 3, Dst: 1},
		Write{Src: 0, Dst: 1},
	)

	cpu := NewCpu(code)
	assert.NoError(cpu.Run())

	// r1 holds the address, r0 the value.
	assert.Equal(int64(7), cpu.Memory.Load(3))
	assert.True(cpu.Memory.Written(3))
	assert.False(cpu.Memory.Written(0))
	assert.False(cpu.Memory.Written(7))
	assert.Equal(1, cpu.Memory.Len())
	assert.Equal(int64(7), cpu.Register[0])
	assert.Equal(int64(3), cpu.Register[1])
}

func TestCpuRead(t *testing.T) {
	assert := assert.New(t)

	code := EncodeProgram(
		LoadConst{Const: 1234, Dst: 0},
		LoadConst{Const: 20, Dst: 1},
		Write{Src: 0, Dst: 1}, // mem[20] = 1234
		LoadConst{Const: 15, Dst: 2},
		Read{Offset: 5, Src: 2, Dst: 3},  // r3 = mem[15+5]
		Read{Offset: 99, Src: 2, Dst: 4}, // r4 = mem[114], never written
	)

	cpu := NewCpu(code)
	cpu.Register[4] = 55

	assert.NoError(cpu.Run())

	assert.Equal(int64(1234), cpu.Register[3])
	assert.Equal(int64(0), cpu.Register[4])
	assert.False(cpu.Memory.Written(114))
	assert.Equal(1, cpu.Memory.Len())
}

func TestCpuShiftRight(t *testing.T) {
	assert := assert.New(t)

	code := EncodeProgram(
		LoadConst{Const: 12, Dst: 1},
		LoadConst{Const: 3, Dst: 2},
		Write{Src: 2, Dst: 1}, // mem[12] = 3, the shift amount
		LoadConst{Const: 10, Dst: 3},
		LoadConst{Const: 64, Dst: 5},
		LoadConst{Const: 100, Dst: 6},
		ShiftRight{Dst: 6, DstOffset: 4, SrcOffset: 2, Src: 3, Operand: 5},
	)

	cpu := NewCpu(code)
	assert.NoError(cpu.Run())

	assert.Equal(int64(8), cpu.Memory.Load(104))
	assert.Equal(int64(3), cpu.Memory.Load(12))
	assert.Equal(2, cpu.Memory.Len())
	assert.Equal(7, cpu.Ticks)
}

func TestCpuShiftRightUnwrittenAmount(t *testing.T) {
	assert := assert.New(t)

	// Shift amount from an unwritten address is zero.
	code := EncodeProgram(
		LoadConst{Const: 0x2a, Dst: 9},
		ShiftRight{Dst: 0, DstOffset: 1, SrcOffset: 100, Src: 0, Operand: 9},
	)

	cpu := NewCpu(code)
	assert.NoError(cpu.Run())
	assert.Equal(int64(0x2a), cpu.Memory.Load(1))
	assert.False(cpu.Memory.Written(100))
}

func TestCpuShiftPolicy(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(4), doShift(8, 1))
	assert.Equal(int64(-4), doShift(-8, 1))
	assert.Equal(int64(0), doShift(8, 64))
	assert.Equal(int64(0), doShift(8, 1000))
	assert.Equal(int64(-1), doShift(-8, 64))
	assert.Equal(int64(-1), doShift(-8, 1000))
	assert.Equal(int64(8), doShift(8, 0))

	cpu := NewCpu(nil)
	cpu.Register[1] = 16
	cpu.Memory.Store(0, 70)
	assert.NoError(cpu.Execute(ShiftRight{Dst: 0, DstOffset: 1, Src: 0, Operand: 1}))
	assert.Equal(int64(0), cpu.Memory.Load(1))

	cpu.Memory.Store(0, -1)
	err := cpu.Execute(ShiftRight{Dst: 0, DstOffset: 2, Src: 0, Operand: 1})
	assert.True(errors.Is(err, ErrShiftNegative))
	assert.False(cpu.Memory.Written(2))
}

func TestCpuTermination(t *testing.T) {
	assert := assert.New(t)

	insts := []Instruction{
		LoadConst{Const: 1, Dst: 0},
		Write{Src: 0, Dst: 0},
		Read{Offset: 0, Src: 0, Dst: 2},
		ShiftRight{Dst: 0, DstOffset: 5, SrcOffset: 0, Src: 0, Operand: 2},
	}
	code := EncodeProgram(insts...)

	cpu := NewCpu(code)

	pcs := []int{}
	for {
		assert.Equal(STATE_RUNNING, cpu.State)
		pcs = append(pcs, cpu.Pc)
		err := cpu.Tick()
		if errors.Is(err, ErrPcEnd) {
			break
		}
		assert.NoError(err)
		if cpu.State == STATE_HALTED {
			break
		}
	}

	assert.Equal([]int{0, 4, 7, 11}, pcs)
	assert.Equal(len(code), cpu.Pc)
	assert.Equal(STATE_HALTED, cpu.State)
	assert.Equal(len(insts), cpu.Ticks)

	// Halted stays halted.
	assert.Equal(ErrPcEnd, cpu.Tick())
	assert.Equal(len(insts), cpu.Ticks)
	assert.Equal(len(code), cpu.Pc)
}

func TestCpuFaultUnknown(t *testing.T) {
	assert := assert.New(t)

	code := EncodeProgram(
		LoadConst{Const: 7, Dst: 0},
		LoadConst{Const: 3, Dst: 1},
		Write{Src: 0, Dst: 1},
	)
	valid := len(code)
	code = append(code, 0x7f, 0x00, 0x00, 0x00)
	code = append(code, EncodeProgram(LoadConst{Const: 9, Dst: 5})...)

	cpu := NewCpu(code)
	err := cpu.Run()
	assert.True(errors.Is(err, ErrOpcodeUnknown))
	assert.False(errors.Is(err, ErrOpcodeTruncated))

	var pc_err *ErrPc
	assert.True(errors.As(err, &pc_err))
	assert.Equal(valid, pc_err.Pc)
	assert.Equal(Op(0x7f), pc_err.Op)

	assert.Equal(STATE_FAULT, cpu.State)
	assert.Equal(valid, cpu.Pc)
	assert.Equal(3, cpu.Ticks)
	assert.Equal(int64(7), cpu.Memory.Load(3))
	assert.Equal(int64(0), cpu.Register[5])

	// Faults are terminal.
	assert.Equal(err, cpu.Tick())
	assert.Equal(err, cpu.Run())
	assert.Equal(3, cpu.Ticks)
	assert.Equal(int64(0), cpu.Register[5])
}

func TestCpuFaultTruncated(t *testing.T) {
	assert := assert.New(t)

	code := EncodeProgram(
		LoadConst{Const: 7, Dst: 0},
		Write{Src: 0, Dst: 0},
	)
	valid := len(code)
	code = append(code, Encode(ShiftRight{Dst: 1})[:4]...)

	cpu := NewCpu(code)
	err := cpu.Run()
	assert.True(errors.Is(err, ErrOpcodeTruncated))

	var pc_err *ErrPc
	assert.True(errors.As(err, &pc_err))
	assert.Equal(valid, pc_err.Pc)
	assert.Equal(OP_RSH, pc_err.Op)

	assert.Equal(STATE_FAULT, cpu.State)
	assert.Equal(2, cpu.Ticks)
	assert.Equal(int64(7), cpu.Memory.Load(7))
}

func TestCpuFaultShift(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(EncodeProgram(
		ShiftRight{Dst: 0, DstOffset: 1, Src: 0, Operand: 0},
		LoadConst{Const: 1, Dst: 0},
	))
	cpu.Memory.Store(0, -5)

	err := cpu.Run()
	assert.True(errors.Is(err, ErrShiftNegative))

	var pc_err *ErrPc
	assert.True(errors.As(err, &pc_err))
	assert.Equal(0, pc_err.Pc)
	assert.Equal(OP_RSH, pc_err.Op)
	assert.Equal(0, cpu.Pc)
	assert.Equal(int64(0), cpu.Register[0])
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	code := EncodeProgram(
		LoadConst{Const: 7, Dst: 0},
		Write{Src: 0, Dst: 0},
	)

	cpu := NewCpu(code)
	assert.NoError(cpu.Run())
	assert.Equal(1, cpu.Memory.Len())

	cpu.Reset()
	assert.Equal(STATE_RUNNING, cpu.State)
	assert.Equal(0, cpu.Pc)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(0, cpu.Memory.Len())
	assert.Equal(int64(0), cpu.Register[0])
	assert.Equal(code, cpu.Code)

	assert.NoError(cpu.Run())
	assert.Equal(int64(7), cpu.Memory.Load(7))
}

func TestCpuParallel(t *testing.T) {
	assert := assert.New(t)

	const runs = 16

	cpus := make([]*Cpu, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for n := range runs {
		cpus[n] = NewCpu(EncodeProgram(
			LoadConst{Const: uint32(n), Dst: 0},
			LoadConst{Const: 100, Dst: 1},
			Write{Src: 0, Dst: 1},
		))
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[n] = cpus[n].Run()
		}()
	}
	wg.Wait()

	for n := range runs {
		assert.NoError(errs[n])
		assert.Equal(int64(n), cpus[n].Memory.Load(100))
		assert.Equal(1, cpus[n].Memory.Len())
	}
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(EncodeProgram(LoadConst{Const: 7, Dst: 2}))
	assert.NoError(cpu.Run())

	text := cpu.String()
	assert.Contains(text, "state: halted")
	assert.Contains(text, "   r2: 7")
	assert.NotContains(text, "r0:")
}
