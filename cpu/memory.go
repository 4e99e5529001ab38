package cpu

import (
	"iter"
	"maps"
	"slices"
)

// Memory is the sparse data memory of the UVM.
// Unwritten addresses read as zero.
type Memory struct {
	Data map[int64]int64
}

// Load returns the value at an address. Loads never insert.
func (mem *Memory) Load(addr int64) int64 {
	return mem.Data[addr]
}

// Store writes a value to an address.
func (mem *Memory) Store(addr int64, value int64) {
	if mem.Data == nil {
		mem.Data = make(map[int64]int64)
	}
	mem.Data[addr] = value
}

// Written reports if the address has ever been stored to.
func (mem *Memory) Written(addr int64) (ok bool) {
	_, ok = mem.Data[addr]
	return
}

// Len returns the count of written addresses.
func (mem *Memory) Len() int {
	return len(mem.Data)
}

// Reset forgets all stored values.
func (mem *Memory) Reset() {
	clear(mem.Data)
}

// Range returns the written (address, value) pairs within the inclusive
// range [start, end], in ascending address order.
func (mem *Memory) Range(start, end int64) iter.Seq2[int64, int64] {
	return func(yield func(addr int64, value int64) bool) {
		addrs := slices.Sorted(maps.Keys(mem.Data))
		for _, addr := range addrs {
			if addr < start || addr > end {
				continue
			}
			if !yield(addr, mem.Data[addr]) {
				return
			}
		}
	}
}
