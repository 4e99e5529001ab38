package io

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
)

// DUMP_INDENT is the indent of a written dump.
const DUMP_INDENT = "    "

// Default dump range.
const (
	DUMP_START = 0
	DUMP_END   = 255
)

// Cell is a single written data memory cell.
type Cell struct {
	Addr  int64
	Value int64
}

// Dump is a data memory dump of the inclusive range [Start, End].
// Only written cells are present, in ascending address order.
//
// The JSON form is an object of decimal address strings to values:
//
//	{
//	    "0": 7,
//	    "3": 12
//	}
type Dump struct {
	Start int64
	End   int64
	Cells []Cell
}

// NewDump collects the cells of the inclusive range [start, end].
func NewDump(start, end int64, cells iter.Seq2[int64, int64]) (dump *Dump) {
	dump = &Dump{
		Start: start,
		End:   end,
	}

	for addr, value := range cells {
		if addr < start || addr > end {
			continue
		}
		dump.Cells = append(dump.Cells, Cell{Addr: addr, Value: value})
	}

	slices.SortFunc(dump.Cells, func(a, b Cell) int {
		return cmp.Compare(a.Addr, b.Addr)
	})

	return
}

// Map returns the dump as an address to value map.
func (dump *Dump) Map() (cells map[int64]int64) {
	cells = make(map[int64]int64, len(dump.Cells))
	for _, cell := range dump.Cells {
		cells[cell.Addr] = cell.Value
	}
	return
}

// MarshalJSON encodes the cells, in address order.
func (dump *Dump) MarshalJSON() (data []byte, err error) {
	var buff bytes.Buffer

	buff.WriteByte('{')
	for n, cell := range dump.Cells {
		if n > 0 {
			buff.WriteByte(',')
		}
		fmt.Fprintf(&buff, "%q:%d", strconv.FormatInt(cell.Addr, 10), cell.Value)
	}
	buff.WriteByte('}')

	data = buff.Bytes()
	return
}

// UnmarshalJSON decodes the cells. The range is set to cover the cells.
func (dump *Dump) UnmarshalJSON(data []byte) (err error) {
	var raw map[string]int64

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return
	}

	cells := make(map[int64]int64, len(raw))
	for key, value := range raw {
		var addr int64
		addr, err = strconv.ParseInt(key, 10, 64)
		if err != nil {
			err = fmt.Errorf("%w: %q", ErrDumpAddress, key)
			return
		}
		cells[addr] = value
	}

	addrs := slices.Sorted(maps.Keys(cells))
	start, end := int64(DUMP_START), int64(DUMP_END)
	if len(addrs) > 0 {
		start = min(start, addrs[0])
		end = max(end, addrs[len(addrs)-1])
	}

	*dump = *NewDump(start, end, maps.All(cells))

	return
}

// WriteDump writes a dump as indented JSON.
func WriteDump(w io.Writer, dump *Dump) (err error) {
	data, err := json.MarshalIndent(dump, "", DUMP_INDENT)
	if err != nil {
		return
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return
}

// ReadDump reads a JSON dump.
func ReadDump(r io.Reader) (dump *Dump, err error) {
	dump = &Dump{}
	err = json.NewDecoder(r).Decode(dump)
	if err != nil {
		dump = nil
	}
	return
}

// SaveDump writes a dump to a file.
func SaveDump(path string, dump *Dump) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := ouf.Close()
		if err == nil {
			err = cerr
		}
	}()

	err = WriteDump(ouf, dump)
	return
}

// ParseRange parses an inclusive 'START-END' address range.
func ParseRange(text string) (start, end int64, err error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(text), "-")
	if !ok {
		err = fmt.Errorf("%w: %q", ErrRangeSyntax, text)
		return
	}

	start, err = strconv.ParseInt(lo, 0, 64)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrRangeSyntax, text)
		return
	}

	end, err = strconv.ParseInt(hi, 0, 64)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrRangeSyntax, text)
		return
	}

	if start > end {
		err = fmt.Errorf("%w: %q", ErrRangeOrder, text)
		return
	}

	return
}
